// Package view owns which content tab of a loaded world is active.
package view

import (
	"strings"
	"sync"
)

// Tab identifies one content view over a loaded world.
type Tab string

const (
	TabOverview   Tab = "overview"
	TabCharacters Tab = "characters"
	TabLocations  Tab = "locations"
	TabStory      Tab = "story"
	TabDialogues  Tab = "dialogues"
	TabArt        Tab = "art"
)

// Default is the tab shown whenever a new world is loaded.
const Default = TabOverview

var order = []Tab{TabOverview, TabCharacters, TabLocations, TabStory, TabDialogues, TabArt}

var labels = map[Tab]string{
	TabOverview:   "Overview",
	TabCharacters: "Characters",
	TabLocations:  "Locations",
	TabStory:      "Story Arc",
	TabDialogues:  "Dialogues",
	TabArt:        "Art Prompts",
}

// Tabs lists every tab in display order.
func Tabs() []Tab {
	out := make([]Tab, len(order))
	copy(out, order)
	return out
}

// Parse resolves an identifier to a tab. Unknown identifiers report false.
func Parse(id string) (Tab, bool) {
	t := Tab(strings.ToLower(strings.TrimSpace(id)))
	_, ok := labels[t]
	return t, ok
}

// Label returns the display name; unknown tabs render as the overview.
func (t Tab) Label() string {
	if l, ok := labels[t]; ok {
		return l
	}
	return labels[Default]
}

// Index is the position in display order, or 0 for unknown tabs.
func (t Tab) Index() int {
	for i, o := range order {
		if o == t {
			return i
		}
	}
	return 0
}

// Resolve maps any tab to one that can be rendered, falling back to the overview.
func Resolve(t Tab) Tab {
	if _, ok := labels[t]; ok {
		return t
	}
	return Default
}

// State is the active tab. The zero value shows the overview.
type State struct {
	mu     sync.Mutex
	active Tab
}

func New() *State {
	return &State{active: Default}
}

func (s *State) Current() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == "" {
		return Default
	}
	return s.active
}

// SetTab switches tabs. Unrecognised identifiers are ignored.
func (s *State) SetTab(id string) {
	t, ok := Parse(id)
	if !ok {
		return
	}
	s.mu.Lock()
	s.active = t
	s.mu.Unlock()
}

// Reset returns to the default tab.
func (s *State) Reset() {
	s.mu.Lock()
	s.active = Default
	s.mu.Unlock()
}

func (s *State) Next() Tab { return s.step(1) }
func (s *State) Prev() Tab { return s.step(-1) }

func (s *State) step(delta int) Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.active
	if cur == "" {
		cur = Default
	}
	i := (cur.Index() + delta + len(order)) % len(order)
	s.active = order[i]
	return s.active
}
