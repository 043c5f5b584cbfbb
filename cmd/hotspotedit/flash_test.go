package main

import (
	"testing"
)

// TestFlashPhaseCalculation verifies the phase logic for message flashing
func TestFlashPhaseCalculation(t *testing.T) {
	// Flash pattern: normal(0-125) -> inverted(125-250) -> normal(250-375) -> inverted(375-500) -> normal(500+)
	tests := []struct {
		elapsed      int64
		wantInverted bool
		description  string
	}{
		{0, false, "start of flash - normal"},
		{124, false, "end of phase 0 - normal"},
		{125, true, "start of phase 1 - inverted"},
		{249, true, "end of phase 1 - inverted"},
		{250, false, "start of phase 2 - normal"},
		{374, false, "end of phase 2 - normal"},
		{375, true, "start of phase 3 - inverted"},
		{499, true, "end of phase 3 - inverted"},
		{500, false, "after flash period - normal"},
		{1000, false, "long after flash - normal"},
		{-1, false, "negative elapsed - normal"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			if got := messageInverted(tt.elapsed); got != tt.wantInverted {
				t.Errorf("elapsed=%d: got inverted=%v, want %v", tt.elapsed, got, tt.wantInverted)
			}
		})
	}
}

// TestFlashMessageTypes verifies which message types should flash
func TestFlashMessageTypes(t *testing.T) {
	tests := []struct {
		msgType     MessageType
		shouldFlash bool
		description string
	}{
		{MsgInfo, false, "info messages don't flash"},
		{MsgError, true, "error messages flash"},
		{MsgSuccess, true, "success messages flash"},
		{MsgWarning, true, "warning messages flash"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			if got := flashes(tt.msgType); got != tt.shouldFlash {
				t.Errorf("msgType=%v: got shouldFlash=%v, want %v", tt.msgType, got, tt.shouldFlash)
			}
		})
	}
}

// TestShowMessageRestartsFlash checks that each message starts its own cycle
func TestShowMessageRestartsFlash(t *testing.T) {
	ed := newTestEditor(t)

	ed.showMessage("First error", MsgError)
	first := ed.messageFlashStart.Load()
	if first == 0 {
		t.Fatal("flash start not recorded")
	}
	if ed.message != "First error" || ed.messageType != MsgError {
		t.Errorf("message = %q (%v)", ed.message, ed.messageType)
	}

	ed.messageFlashStart.Store(first - 1000) // long finished
	ed.showMessage("Second error", MsgError)
	if got := ed.messageFlashStart.Load(); got < first {
		t.Errorf("second message did not restart the flash: %d < %d", got, first)
	}
}
