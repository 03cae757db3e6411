package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jask/storyworld/internal/world"
)

// Store holds one pre-authored world per genre.
type Store struct {
	worlds map[world.Genre]world.World
}

// NewStore builds a store from worlds keyed by their Genre field.
func NewStore(worlds ...world.World) *Store {
	s := &Store{worlds: make(map[world.Genre]world.World, len(worlds))}
	for _, w := range worlds {
		s.worlds[world.Genre(strings.ToLower(w.Genre))] = w
	}
	return s
}

// Load reads every *.json, *.yaml and *.yml file in dir. Each file holds one
// world; its genre field, or else the file name stem, picks the genre slot.
func Load(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("fixture: read dir: %w", err)
	}
	s := &Store{worlds: map[world.Genre]world.World{}}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		w, err := loadFile(path, ext)
		if err != nil {
			return nil, err
		}
		genre := strings.ToLower(strings.TrimSpace(w.Genre))
		if genre == "" {
			genre = strings.ToLower(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
		s.worlds[world.Genre(genre)] = w
	}
	return s, nil
}

func loadFile(path, ext string) (world.World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return world.World{}, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	if ext != ".json" {
		// round-trip through JSON so YAML fixtures get the same shape check
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return world.World{}, fmt.Errorf("fixture: parse %s: %w", path, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return world.World{}, fmt.Errorf("fixture: convert %s: %w", path, err)
		}
	}
	w, err := world.Decode(data)
	if err != nil {
		return world.World{}, fmt.Errorf("fixture: %s: %w", path, err)
	}
	return w, nil
}

// Lookup returns the fixture for a genre.
func (s *Store) Lookup(g world.Genre) (world.World, bool) {
	w, ok := s.worlds[g]
	return w, ok
}

// Genres lists the loaded genres in sorted order.
func (s *Store) Genres() []string {
	out := make([]string, 0, len(s.worlds))
	for g := range s.worlds {
		out = append(out, string(g))
	}
	sort.Strings(out)
	return out
}

func (s *Store) Len() int { return len(s.worlds) }
