package sample

import (
	"fmt"
	"strings"
	"time"

	"github.com/jask/storyworld/internal/world"
)

// World builds a complete, well-formed world for the given genre.
// The content is fixed so tests can assert on it.
func World(genre world.Genre) world.World {
	created := time.Date(2026, time.February, 3, 10, 30, 0, 0, time.UTC)
	title := map[world.Genre]string{
		world.GenreFantasy:   "Dune of Glass",
		world.GenreSciFi:     "Nova Prime",
		world.GenreSteampunk: "Cogsworth",
	}[genre]
	if title == "" {
		title = "Mystara"
	}

	chars := []world.Character{
		{Name: "Kael Stormrider", Role: "Hero", Personality: "Driven by a strong moral compass and desire to protect others", Motivation: "Protecting a loved one or homeland", Backstory: "Last surviving member of a destroyed order or family"},
		{Name: "Lyra Nightshade", Role: "Mentor", Personality: "Possesses ancient knowledge but harbors hidden secrets", Motivation: "Uncovering a powerful ancient secret", Backstory: "Amnesiac with a mysterious past"},
		{Name: "Orion Ironwood", Role: "Rogue", Personality: "Charming and resourceful, but trusts few people", Motivation: "Gaining power or knowledge", Backstory: "Former enemy who has switched sides"},
	}
	locs := []world.Location{
		{Name: "The Whispering Woods", Type: "forest", Description: "Ancient forest where trees communicate"},
		{Name: "The Sunken City", Type: "ruins", Description: "Ruined metropolis beneath the waves"},
	}

	w := world.World{
		Title:      title,
		Summary:    fmt.Sprintf("A desert planet set in %s where ancient forces clash.", strings.ToLower(genre.Label())),
		Theme:      "desert planet",
		Genre:      string(genre),
		Complexity: string(world.ComplexityMedium),
		Characters: chars,
		Locations:  locs,
		StoryArc: world.StoryArc{
			Title: "The Shattered Crown",
			Phases: []string{
				"Finding the first fragment of an ancient artifact",
				"Journey to recover remaining fragments from dangerous locations",
				"Final battle to prevent the artifact from falling into wrong hands",
			},
		},
		Dialogues: []world.Dialogue{{
			Characters: chars[0].Name + " and " + chars[1].Name,
			Dialogue: strings.Join([]string{
				chars[0].Name + ": 'I've seen what lies beyond the horizon.'",
				chars[1].Name + ": 'Some things shouldn't be seen.'",
			}, "\n"),
		}},
		ArtPrompts: []string{
			fmt.Sprintf("epic %s landscape of %s, dramatic lighting", genre, title),
			fmt.Sprintf("Hero character %s in %s, character portrait", chars[0].Name, title),
		},
		CreatedAt: &created,
	}
	return w
}

// JSON is the wire form of World without the request-derived fields,
// matching what the generation service actually sends.
func JSON(genre world.Genre) string {
	w := World(genre)
	var b strings.Builder
	fmt.Fprintf(&b, `{"title":%q,"summary":%q,"characters":[`, w.Title, w.Summary)
	for i, c := range w.Characters {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"name":%q,"role":%q,"personality":%q,"motivation":%q,"backstory":%q}`, c.Name, c.Role, c.Personality, c.Motivation, c.Backstory)
	}
	b.WriteString(`],"locations":[`)
	for i, l := range w.Locations {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"name":%q,"description":%q,"type":%q}`, l.Name, l.Description, l.Type)
	}
	fmt.Fprintf(&b, `],"story_arc":{"title":%q,"phases":[`, w.StoryArc.Title)
	for i, p := range w.StoryArc.Phases {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%q", p)
	}
	b.WriteString(`]},"dialogues":[`)
	for i, d := range w.Dialogues {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"characters":%q,"dialogue":%q}`, d.Characters, d.Dialogue)
	}
	b.WriteString(`],"art_prompts":[`)
	for i, p := range w.ArtPrompts {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%q", p)
	}
	b.WriteString(`]}`)
	return b.String()
}
