package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
	Submit    key.Binding
	Dismiss   key.Binding
	NextField key.Binding
	PrevField key.Binding
	Left      key.Binding
	Right     key.Binding
	NewWorld  key.Binding
	Save      key.Binding
	Copy      key.Binding
	JumpTab   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate")),
		Dismiss:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next")),
		NewWorld:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new world")),
		Save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save json")),
		Copy:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy json")),
		JumpTab:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"), key.WithHelp("1-6", "tabs")),
	}
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, "["+h.Key+"] "+h.Desc)
	}
	return dimStyle.Render(strings.Join(parts, "  "))
}

// hint is a help-only binding for keys handled elsewhere.
func hint(keys, desc string) key.Binding {
	return key.NewBinding(key.WithHelp(keys, desc))
}
