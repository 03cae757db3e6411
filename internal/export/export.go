// Package export turns a loaded world into a JSON document for saving or
// copying to the clipboard.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/jask/storyworld/internal/world"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Serialize renders the world as two-space indented JSON. Decoding the result
// yields an equal world.
func Serialize(w world.World) ([]byte, error) {
	b, err := json.MarshalIndent(w.Normalized(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize world: %w", err)
	}
	return b, nil
}

// SuggestedFilename replaces each whitespace run in the title with an
// underscore and appends _storyworld.json.
func SuggestedFilename(w world.World) string {
	return whitespaceRun.ReplaceAllString(w.Title, "_") + "_storyworld.json"
}

// Save writes the serialized world to dir under its suggested filename and
// returns the final path. The file appears atomically.
func Save(dir string, w world.World) (string, error) {
	data, err := Serialize(w)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(SuggestedFilename(w)))

	tmp, err := os.CreateTemp(dir, ".storyworld-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close export: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod export: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename export: %w", err)
	}
	return path, nil
}
