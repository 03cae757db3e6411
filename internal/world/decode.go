package world

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ShapeError lists the required fields a payload did not carry.
type ShapeError struct {
	Missing []string
}

func (e *ShapeError) Error() string {
	return "world: missing required fields: " + strings.Join(e.Missing, ", ")
}

// wire types keep required fields as pointers so absence is distinguishable from "".
type wireWorld struct {
	Title      *string          `json:"title"`
	Summary    *string          `json:"summary"`
	Theme      string           `json:"theme"`
	Genre      string           `json:"genre"`
	Complexity string           `json:"complexity"`
	Characters *[]wireCharacter `json:"characters"`
	Locations  *[]wireLocation  `json:"locations"`
	StoryArc   *wireStoryArc    `json:"story_arc"`
	Dialogues  *[]wireDialogue  `json:"dialogues"`
	ArtPrompts *[]string        `json:"art_prompts"`
	CreatedAt  *time.Time       `json:"created_at"`
}

type wireCharacter struct {
	Name        *string `json:"name"`
	Role        *string `json:"role"`
	Personality *string `json:"personality"`
	Motivation  *string `json:"motivation"`
	Backstory   *string `json:"backstory"`
}

type wireLocation struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
}

type wireStoryArc struct {
	Title  *string   `json:"title"`
	Phases *[]string `json:"phases"`
}

type wireDialogue struct {
	Characters *string `json:"characters"`
	Dialogue   *string `json:"dialogue"`
}

// Decode parses a JSON world and rejects payloads missing any required field.
func Decode(data []byte) (World, error) {
	var raw wireWorld
	if err := json.Unmarshal(data, &raw); err != nil {
		return World{}, fmt.Errorf("world: decode: %w", err)
	}
	c := checker{}
	w := World{
		Title:      c.str("title", raw.Title),
		Summary:    c.str("summary", raw.Summary),
		Theme:      raw.Theme,
		Genre:      raw.Genre,
		Complexity: raw.Complexity,
		CreatedAt:  raw.CreatedAt,
	}

	if raw.Characters == nil {
		c.missing = append(c.missing, "characters")
	} else {
		w.Characters = make([]Character, 0, len(*raw.Characters))
		for i, ch := range *raw.Characters {
			p := fmt.Sprintf("characters[%d].", i)
			w.Characters = append(w.Characters, Character{
				Name:        c.str(p+"name", ch.Name),
				Role:        c.str(p+"role", ch.Role),
				Personality: c.str(p+"personality", ch.Personality),
				Motivation:  c.str(p+"motivation", ch.Motivation),
				Backstory:   c.str(p+"backstory", ch.Backstory),
			})
		}
	}

	if raw.Locations == nil {
		c.missing = append(c.missing, "locations")
	} else {
		w.Locations = make([]Location, 0, len(*raw.Locations))
		for i, loc := range *raw.Locations {
			p := fmt.Sprintf("locations[%d].", i)
			w.Locations = append(w.Locations, Location{
				Name:        c.str(p+"name", loc.Name),
				Type:        c.str(p+"type", loc.Type),
				Description: c.str(p+"description", loc.Description),
			})
		}
	}

	if raw.StoryArc == nil {
		c.missing = append(c.missing, "story_arc")
	} else {
		w.StoryArc.Title = c.str("story_arc.title", raw.StoryArc.Title)
		w.StoryArc.Phases = c.strs("story_arc.phases", raw.StoryArc.Phases)
	}

	if raw.Dialogues == nil {
		c.missing = append(c.missing, "dialogues")
	} else {
		w.Dialogues = make([]Dialogue, 0, len(*raw.Dialogues))
		for i, d := range *raw.Dialogues {
			p := fmt.Sprintf("dialogues[%d].", i)
			w.Dialogues = append(w.Dialogues, Dialogue{
				Characters: c.str(p+"characters", d.Characters),
				Dialogue:   c.str(p+"dialogue", d.Dialogue),
			})
		}
	}

	w.ArtPrompts = c.strs("art_prompts", raw.ArtPrompts)

	if len(c.missing) > 0 {
		return World{}, &ShapeError{Missing: c.missing}
	}
	return w, nil
}

type checker struct {
	missing []string
}

func (c *checker) str(name string, v *string) string {
	if v == nil {
		c.missing = append(c.missing, name)
		return ""
	}
	return *v
}

func (c *checker) strs(name string, v *[]string) []string {
	if v == nil {
		c.missing = append(c.missing, name)
		return nil
	}
	out := make([]string, len(*v))
	copy(out, *v)
	return out
}
