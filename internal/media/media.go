// Package media stores uploaded images on the filesystem under random,
// non-guessable filenames.
package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// NoImage is the sentinel image path for items without an image.
const NoImage = "not-image.png"

// allowedExtensions lists the accepted upload file extensions.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// ErrInvalidName is returned for filenames that are empty, contain path
// separators or otherwise do not name a file directly inside the store.
var ErrInvalidName = errors.New("invalid media filename")

// Store is a filesystem-backed blob store.
type Store struct {
	dir string
}

// NewStore creates the media directory if needed and returns a store for it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// NewFilename generates a random filename preserving the (validated)
// extension of the original name. The original name is never persisted.
func NewFilename(original string) (string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: extension %q not allowed", ErrInvalidName, ext)
	}
	return uuid.NewString() + ext, nil
}

// AllowedExtension reports whether the extension (with leading dot, any
// case) is an accepted image type.
func AllowedExtension(ext string) bool {
	return allowedExtensions[strings.ToLower(ext)]
}

// Save writes a blob under the given name.
func (s *Store) Save(name string, data []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing media file: %w", err)
	}
	return nil
}

// Read returns the blob stored under the given name. A missing file is
// reported via fs.ErrNotExist.
func (s *Store) Read(name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Delete removes the blob stored under the given name.
func (s *Store) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// Size returns the byte size of the blob, or 0 if it does not exist or
// cannot be read.
func (s *Store) Size(name string) int64 {
	path, err := s.path(name)
	if err != nil {
		return 0
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return 0
	}
	return info.Size()
}

// path validates the name against path traversal and resolves it inside the
// store directory.
func (s *Store) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name), nil
}
