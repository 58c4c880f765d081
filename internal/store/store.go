// Package store persists tour documents as pretty-printed JSON files.
//
// Writes replace the whole file; there is no locking, so the last writer wins.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/petasbytes/codetour-mcp/tour"
)

// Ext is the file extension tour documents are saved with.
const Ext = ".tour"

// Load reads and decodes the tour at path. Comments and trailing commas are
// tolerated so hand-edited files still load.
func Load(path string) (*tour.Tour, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", tour.ErrNotFound, path)
		}
		return nil, err
	}
	var t tour.Tour
	if err := json.Unmarshal(jsonc.ToJSON(b), &t); err != nil {
		return nil, fmt.Errorf("%w in %s: %v", tour.ErrParse, path, err)
	}
	return &t, nil
}

// Save writes t to path, creating parent directories as needed and
// overwriting any existing file.
func Save(path string, t *tour.Tour) error {
	return WriteJSON(path, t)
}

// Create writes t to path only if nothing exists there yet.
func Create(path string, t *tour.Tour) error {
	b, err := encode(t)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", tour.ErrAlreadyExists, path)
		}
		return err
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteJSON encodes v with two-space indentation and a trailing newline and
// writes it to path, creating parent directories as needed.
func WriteJSON(path string, v any) error {
	b, err := encode(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PathForTitle derives a tour's file path from its title: lower-cased,
// spaces and slashes replaced with "-", suffixed with Ext, inside dir.
func PathForTitle(dir, title string) string {
	slug := strings.NewReplacer(" ", "-", "/", "-").Replace(strings.ToLower(title))
	return filepath.Join(dir, slug+Ext)
}
