// Package pagestore stores uploaded page images and resolves them to URLs.
//
// The editor only needs two things from an object store: put the bytes
// somewhere and get back a locator, then turn a locator into a URL a
// viewer can load. Store captures that; DirStore implements it on a local
// directory.
package pagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrUnsupportedType is returned by Put for anything but a JPEG image.
	ErrUnsupportedType = errors.New("only JPEG images are allowed")
	// ErrNotFound is returned when a locator names no stored object.
	ErrNotFound = errors.New("page image not found")
)

// Locator identifies a stored object within a store.
type Locator string

// Store is the narrow interface the editor uses for page images.
type Store interface {
	Put(ctx context.Context, name string, data []byte) (Locator, error)
	Resolve(loc Locator) string
}

// DirStore keeps page images as files in a single directory.
type DirStore struct {
	dir    string
	now    func() time.Time
	logger *slog.Logger
}

// NewDirStore returns a store rooted at dir, creating it if needed.
func NewDirStore(dir string, logger *slog.Logger) (*DirStore, error) {
	if dir == "" {
		return nil, errors.New("pagestore: empty directory")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("pagestore: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DirStore{dir: abs, now: time.Now, logger: logger}, nil
}

// Dir returns the store's root directory.
func (s *DirStore) Dir() string { return s.dir }

// IsJPEG reports whether data looks like a JPEG image.
func IsJPEG(data []byte) bool {
	return http.DetectContentType(data) == "image/jpeg"
}

// ObjectName builds the stored name for an upload: the upload time in
// unix milliseconds, an underscore, then the base file name.
func ObjectName(t time.Time, name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		base = "page.jpg"
	}
	return fmt.Sprintf("%d_%s", t.UnixMilli(), base)
}

// Put stores a JPEG page image and returns its locator.
func (s *DirStore) Put(ctx context.Context, name string, data []byte) (Locator, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !IsJPEG(data) {
		s.logger.Warn("upload rejected", "name", name, "type", http.DetectContentType(data))
		return "", fmt.Errorf("%s: %w", name, ErrUnsupportedType)
	}

	obj := ObjectName(s.now(), name)
	path := filepath.Join(s.dir, obj)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("storing %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("storing %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("storing %s: %w", name, err)
	}

	s.logger.Info("page uploaded", "name", name, "object", obj, "bytes", len(data))
	return Locator(obj), nil
}

// Resolve returns a file URL for a locator.
func (s *DirStore) Resolve(loc Locator) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(s.dir, string(loc)))}
	return u.String()
}

// Open returns the bytes stored under loc.
func (s *DirStore) Open(loc Locator) ([]byte, error) {
	name := string(loc)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return data, err
}
