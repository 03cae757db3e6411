package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/storyworld/internal/session"
	"github.com/jask/storyworld/internal/validate"
	"github.com/jask/storyworld/internal/view"
	"github.com/jask/storyworld/internal/world"
)

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Storyworld Generator"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Create rich, detailed worlds for your stories"))
	b.WriteString("\n\n")

	if a.st.Status == session.StatusFailed && a.st.Error != "" {
		b.WriteString(errorStyle.Render(ansi.Wordwrap(a.st.Error, a.contentWidth()-4, "")))
		b.WriteString("\n")
		b.WriteString(helpLine(a.keys.Dismiss))
		b.WriteString("\n\n")
	}

	switch {
	case a.st.Status == session.StatusInFlight:
		b.WriteString(a.renderLoading())
	case a.st.Status == session.StatusLoaded && a.st.World != nil:
		b.WriteString(a.renderWorld(*a.st.World))
	default:
		b.WriteString(a.renderForm())
	}

	if a.status != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(ansi.Truncate(a.status, a.contentWidth(), "…")))
	}
	return b.String()
}

func (a *App) contentWidth() int {
	w := a.width
	if w <= 0 {
		w = 80
	}
	return min(w, 100)
}

func (a *App) wrap(s string, indent int) string {
	return ansi.Wordwrap(s, max(20, a.contentWidth()-indent), "")
}

func (a *App) renderLoading() string {
	var b strings.Builder
	b.WriteString(a.spinner.View())
	b.WriteString(" Creating Your World...")
	if r := a.st.Request; r != nil {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%s · %s · %q", r.Genre.Label(), r.Complexity.Label(), r.Theme)))
	}
	b.WriteString("\n\n")
	b.WriteString(helpLine(hint("esc", "cancel"), a.keys.ForceQuit))
	return b.String()
}

func (a *App) renderForm() string {
	var b strings.Builder
	b.WriteString(a.fieldLabel(fieldTheme, "World Theme"))
	b.WriteString("\n")
	b.WriteString(a.theme.View())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d/%d characters", utf8.RuneCountInString(a.theme.Value()), validate.MaxThemeLength)))
	b.WriteString("\n\n")

	b.WriteString(a.fieldLabel(fieldGenre, "Genre"))
	b.WriteString("\n")
	genres := world.Genres()
	opts := make([]string, len(genres))
	for i, g := range genres {
		opts[i] = option(g.Label(), i == a.genreIdx)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, opts...))
	b.WriteString("\n\n")

	b.WriteString(a.fieldLabel(fieldComplexity, "Complexity"))
	b.WriteString("\n")
	levels := world.Complexities()
	opts = make([]string, len(levels))
	for i, c := range levels {
		opts[i] = option(c.Label(), i == a.complexityIdx)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, opts...))
	b.WriteString("\n\n")

	if strings.TrimSpace(a.theme.Value()) == "" {
		b.WriteString(disabledButtonStyle.Render("Generate World"))
	} else {
		b.WriteString(buttonStyle.Render("Generate World"))
	}
	b.WriteString("\n\n")
	b.WriteString(helpLine(a.keys.Submit, a.keys.NextField, hint("←/→", "choose"), a.keys.ForceQuit))
	return b.String()
}

func (a *App) fieldLabel(f formField, text string) string {
	if a.focus == f {
		return focusedMarkerStyle.Render("▸ ") + labelStyle.Render(text)
	}
	return "  " + labelStyle.Render(text)
}

func option(label string, selected bool) string {
	if selected {
		return selectedStyle.Render(label)
	}
	return optionStyle.Render(label)
}

func (a *App) renderWorld(w world.World) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(w.Title))
	b.WriteString("\n")
	b.WriteString(a.wrap(w.Summary, 0))
	b.WriteString("\n\n")
	b.WriteString(a.renderTabBar())
	b.WriteString("\n\n")
	b.WriteString(a.renderTab(w))
	b.WriteString("\n\n")
	if a.copied {
		b.WriteString(successStyle.Render("Copied!"))
		b.WriteString("\n")
	}
	b.WriteString(helpLine(a.keys.JumpTab, hint("←/→", "tabs"), a.keys.Save, a.keys.Copy, a.keys.NewWorld, a.keys.Quit))
	return b.String()
}

func (a *App) renderTabBar() string {
	active := view.Resolve(a.views.Current())
	tabs := view.Tabs()
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Label())
		if t == active {
			parts[i] = activeTabStyle.Render(label)
		} else {
			parts[i] = tabStyle.Render(label)
		}
	}
	return ansi.Truncate(lipgloss.JoinHorizontal(lipgloss.Top, parts...), a.contentWidth(), "…")
}

func (a *App) renderTab(w world.World) string {
	switch view.Resolve(a.views.Current()) {
	case view.TabCharacters:
		return a.renderCharacters(w)
	case view.TabLocations:
		return a.renderLocations(w)
	case view.TabStory:
		return a.renderStory(w)
	case view.TabDialogues:
		return a.renderDialogues(w)
	case view.TabArt:
		return a.renderArt(w)
	default:
		return a.renderOverview(w)
	}
}

func (a *App) renderOverview(w world.World) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("World Overview"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", fieldStyle.Render("Theme:"), w.Theme)
	fmt.Fprintf(&b, "%s %s\n", fieldStyle.Render("Genre:"), world.Genre(w.Genre).Label())
	fmt.Fprintf(&b, "%s %s\n", fieldStyle.Render("Complexity:"), world.Complexity(w.Complexity).Label())
	if w.CreatedAt != nil {
		fmt.Fprintf(&b, "%s %s\n", fieldStyle.Render("Created:"), w.CreatedAt.Local().Format("January 2, 2006 15:04"))
	}

	s := w.Stats()
	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Key Features"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "• %d Characters\n", s.Characters)
	fmt.Fprintf(&b, "• %d Locations\n", s.Locations)
	fmt.Fprintf(&b, "• %d Story Phases\n", s.Phases)
	fmt.Fprintf(&b, "• %d Art Prompts", s.ArtPrompts)
	return b.String()
}

func (a *App) renderCharacters(w world.World) string {
	if len(w.Characters) == 0 {
		return dimStyle.Render("No characters.")
	}
	blocks := make([]string, 0, len(w.Characters))
	for _, c := range w.Characters {
		var b strings.Builder
		b.WriteString(nameStyle.Render(c.Name))
		b.WriteString(" ")
		b.WriteString(dimStyle.Render("(" + c.Role + ")"))
		b.WriteString("\n")
		b.WriteString(a.field("Personality", c.Personality))
		b.WriteString(a.field("Motivation", c.Motivation))
		b.WriteString(strings.TrimSuffix(a.field("Backstory", c.Backstory), "\n"))
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

func (a *App) field(name, value string) string {
	return "  " + fieldStyle.Render(name+":") + " " + a.wrap(value, 4+len(name)) + "\n"
}

func (a *App) renderLocations(w world.World) string {
	if len(w.Locations) == 0 {
		return dimStyle.Render("No locations.")
	}
	blocks := make([]string, 0, len(w.Locations))
	for _, l := range w.Locations {
		blocks = append(blocks, nameStyle.Render(l.Name)+" "+dimStyle.Render("["+l.Type+"]")+"\n  "+a.wrap(l.Description, 2))
	}
	return strings.Join(blocks, "\n\n")
}

func (a *App) renderStory(w world.World) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(w.StoryArc.Title))
	for i, p := range w.StoryArc.Phases {
		fmt.Fprintf(&b, "\n%d. %s", i+1, a.wrap(p, 4))
	}
	return b.String()
}

func (a *App) renderDialogues(w world.World) string {
	if len(w.Dialogues) == 0 {
		return dimStyle.Render("No dialogues.")
	}
	blocks := make([]string, 0, len(w.Dialogues))
	for _, d := range w.Dialogues {
		var b strings.Builder
		b.WriteString(nameStyle.Render(d.Characters))
		for _, line := range d.Lines() {
			b.WriteString("\n  ")
			b.WriteString(quoteStyle.Render(a.wrap(line, 2)))
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

func (a *App) renderArt(w world.World) string {
	if len(w.ArtPrompts) == 0 {
		return dimStyle.Render("No art prompts.")
	}
	var b strings.Builder
	b.WriteString(headingStyle.Render("Art Prompts"))
	for i, p := range w.ArtPrompts {
		fmt.Fprintf(&b, "\n%d. %s", i+1, a.wrap(p, 4))
	}
	return b.String()
}
