package world

import (
	"strings"
	"time"
)

// Genre is one of the settings the generation service understands.
type Genre string

const (
	GenreFantasy   Genre = "fantasy"
	GenreSciFi     Genre = "sci-fi"
	GenreSteampunk Genre = "steampunk"
)

// Genres lists genres in form order.
func Genres() []Genre {
	return []Genre{GenreFantasy, GenreSciFi, GenreSteampunk}
}

// Label is the display name shown in selectors.
func (g Genre) Label() string {
	switch g {
	case GenreSciFi:
		return "Sci-Fi"
	case GenreSteampunk:
		return "Steampunk"
	default:
		return "Fantasy"
	}
}

// Complexity controls how elaborate the generated world should be.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

func Complexities() []Complexity {
	return []Complexity{ComplexitySimple, ComplexityMedium, ComplexityComplex}
}

func (c Complexity) Label() string {
	switch c {
	case ComplexitySimple:
		return "Simple"
	case ComplexityComplex:
		return "Complex"
	default:
		return "Medium"
	}
}

// Request is the body posted to the generation endpoint.
type Request struct {
	Theme      string     `json:"theme"`
	Genre      Genre      `json:"genre"`
	Complexity Complexity `json:"complexity"`
}

// World is a generated storyworld.
type World struct {
	Title      string      `json:"title" yaml:"title"`
	Summary    string      `json:"summary" yaml:"summary"`
	Theme      string      `json:"theme" yaml:"theme"`
	Genre      string      `json:"genre" yaml:"genre"`
	Complexity string      `json:"complexity" yaml:"complexity"`
	Characters []Character `json:"characters" yaml:"characters"`
	Locations  []Location  `json:"locations" yaml:"locations"`
	StoryArc   StoryArc    `json:"story_arc" yaml:"story_arc"`
	Dialogues  []Dialogue  `json:"dialogues" yaml:"dialogues"`
	ArtPrompts []string    `json:"art_prompts" yaml:"art_prompts"`
	CreatedAt  *time.Time  `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

type Character struct {
	Name        string `json:"name" yaml:"name"`
	Role        string `json:"role" yaml:"role"`
	Personality string `json:"personality" yaml:"personality"`
	Motivation  string `json:"motivation" yaml:"motivation"`
	Backstory   string `json:"backstory" yaml:"backstory"`
}

type Location struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

type StoryArc struct {
	Title  string   `json:"title" yaml:"title"`
	Phases []string `json:"phases" yaml:"phases"`
}

// Dialogue is a sample exchange; Dialogue holds one spoken line per row.
type Dialogue struct {
	Characters string `json:"characters" yaml:"characters"`
	Dialogue   string `json:"dialogue" yaml:"dialogue"`
}

// Lines splits the exchange into its spoken lines.
func (d Dialogue) Lines() []string {
	if d.Dialogue == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(d.Dialogue, "\r\n", "\n"), "\n")
}

// Stats summarises a world for the overview tab.
type Stats struct {
	Characters int
	Locations  int
	Phases     int
	ArtPrompts int
}

func (w World) Stats() Stats {
	return Stats{
		Characters: len(w.Characters),
		Locations:  len(w.Locations),
		Phases:     len(w.StoryArc.Phases),
		ArtPrompts: len(w.ArtPrompts),
	}
}

// FillFrom copies request parameters the service left out of its answer.
func (w *World) FillFrom(req Request) {
	if w.Theme == "" {
		w.Theme = req.Theme
	}
	if w.Genre == "" {
		w.Genre = string(req.Genre)
	}
	if w.Complexity == "" {
		w.Complexity = string(req.Complexity)
	}
}

// Normalized returns a copy whose sequences are never nil so encoders emit [] instead of null.
func (w World) Normalized() World {
	if w.Characters == nil {
		w.Characters = []Character{}
	}
	if w.Locations == nil {
		w.Locations = []Location{}
	}
	if w.StoryArc.Phases == nil {
		w.StoryArc.Phases = []string{}
	}
	if w.Dialogues == nil {
		w.Dialogues = []Dialogue{}
	}
	if w.ArtPrompts == nil {
		w.ArtPrompts = []string{}
	}
	return w
}
