// Package media persists image payloads to durable on-device storage.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Library writes images under <dataDir>/images.
type Library struct {
	dir string
}

// NewLibrary creates a library rooted at dataDir.
func NewLibrary(dataDir string) *Library {
	return &Library{dir: filepath.Join(dataDir, "images")}
}

// Save writes the payload and returns the absolute local path. The name is
// sanitized and made unique; callers treat an error as "no image".
func (l *Library) Save(name string, payload []byte) (string, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}

	ext := filepath.Ext(name)
	if ext == "" {
		ext = ".jpg"
	}
	path := filepath.Join(l.dir, uuid.NewString()+ext)

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// Remove deletes a previously saved image. Paths outside the library are
// refused; a missing file is a no-op.
func (l *Library) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	root, err := filepath.Abs(l.dir)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return fmt.Errorf("path %s is outside the image library", path)
	}

	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
