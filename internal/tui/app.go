package tui

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/storyworld/internal/export"
	"github.com/jask/storyworld/internal/session"
	"github.com/jask/storyworld/internal/validate"
	"github.com/jask/storyworld/internal/view"
	"github.com/jask/storyworld/internal/world"
)

// App ties the session, view and export state to the terminal.
type App struct {
	ctx       context.Context
	session   *session.Controller
	views     *view.State
	exporter  *export.Coordinator
	exportDir string
	keys      keyMap

	theme         textinput.Model
	spinner       spinner.Model
	focus         formField
	genreIdx      int
	complexityIdx int

	st     session.State
	copied bool
	status string
	width  int
}

// Deps are the collaborators the shell drives.
type Deps struct {
	Session   *session.Controller
	Exporter  *export.Coordinator
	ExportDir string
}

type formField int

const (
	fieldTheme formField = iota
	fieldGenre
	fieldComplexity
	fieldCount
)

const themePlaceholder = "e.g., desert planet, underwater civilization, floating islands"

func New(ctx context.Context, deps Deps) *App {
	ti := textinput.New()
	ti.Placeholder = themePlaceholder
	ti.CharLimit = validate.MaxThemeLength
	ti.Width = 60
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = headingStyle

	a := &App{
		ctx:       ctx,
		session:   deps.Session,
		views:     deps.Session.Views(),
		exporter:  deps.Exporter,
		exportDir: deps.ExportDir,
		keys:      defaultKeys(),
		theme:     ti,
		spinner:   sp,
		width:     80,
	}
	a.refresh()
	a.syncForm()
	return a
}

type outcomeMsg session.Outcome

type exportStateMsg export.State

type copyDoneMsg struct{ err error }

type savedMsg struct{ path string }

type statusMsg string

type errMsg struct{ error }

func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.waitExport())
}

// waitExport blocks until the copied indicator changes.
func (a *App) waitExport() tea.Cmd {
	if a.exporter == nil {
		return nil
	}
	ch := a.exporter.Changes()
	return func() tea.Msg {
		select {
		case st := <-ch:
			return exportStateMsg(st)
		case <-a.ctx.Done():
			return nil
		}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.theme.Width = min(60, max(20, m.Width-8))
	case tea.KeyMsg:
		return a.handleKey(m)
	case outcomeMsg:
		if !a.session.Apply(session.Outcome(m)) {
			return a, nil
		}
		a.refresh()
	case spinner.TickMsg:
		if a.st.Status != session.StatusInFlight {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case exportStateMsg:
		a.copied = m.Copied
		return a, a.waitExport()
	case copyDoneMsg:
		if m.err != nil {
			a.status = "Copy failed: clipboard unavailable"
		} else {
			a.copied = a.exporter.State().Copied
			a.status = ""
		}
	case savedMsg:
		a.status = "Saved to " + m.path
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	default:
		if a.formActive() {
			var cmd tea.Cmd
			a.theme, cmd = a.theme.Update(msg)
			return a, cmd
		}
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(m, a.keys.ForceQuit) {
		return a, tea.Quit
	}
	switch a.st.Status {
	case session.StatusInFlight:
		// esc abandons the request; its answer will be discarded
		if key.Matches(m, a.keys.Dismiss) {
			a.session.Reset()
			a.refresh()
			a.syncForm()
			a.status = "Request cancelled"
		}
		return a, nil
	case session.StatusFailed:
		if key.Matches(m, a.keys.Dismiss) {
			a.session.Dismiss()
			a.refresh()
			return a, nil
		}
	case session.StatusLoaded:
		if a.st.World != nil {
			return a.handleWorldKey(m)
		}
	}
	return a.handleFormKey(m)
}

func (a *App) handleWorldKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.NewWorld):
		a.session.Reset()
		a.refresh()
		a.syncForm()
		a.status = ""
	case key.Matches(m, a.keys.Save):
		return a, a.saveCmd(*a.st.World)
	case key.Matches(m, a.keys.Copy):
		return a, a.copyCmd(*a.st.World)
	case key.Matches(m, a.keys.JumpTab):
		if i := int(m.String()[0] - '1'); i >= 0 && i < len(view.Tabs()) {
			a.views.SetTab(string(view.Tabs()[i]))
		}
	case key.Matches(m, a.keys.Left):
		a.views.Prev()
	case key.Matches(m, a.keys.Right):
		a.views.Next()
	}
	return a, nil
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Submit):
		return a, a.submit()
	case key.Matches(m, a.keys.NextField):
		a.setFocus((a.focus + 1) % fieldCount)
		return a, nil
	case key.Matches(m, a.keys.PrevField):
		a.setFocus((a.focus + fieldCount - 1) % fieldCount)
		return a, nil
	}

	if a.focus == fieldTheme {
		var cmd tea.Cmd
		a.theme, cmd = a.theme.Update(m)
		return a, cmd
	}

	step := 0
	switch {
	case key.Matches(m, a.keys.Left):
		step = -1
	case key.Matches(m, a.keys.Right):
		step = 1
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	}
	if step != 0 {
		switch a.focus {
		case fieldGenre:
			n := len(world.Genres())
			a.genreIdx = (a.genreIdx + step + n) % n
		case fieldComplexity:
			n := len(world.Complexities())
			a.complexityIdx = (a.complexityIdx + step + n) % n
		}
	}
	return a, nil
}

// submit mirrors the form button: nothing happens while the trimmed theme
// is empty.
func (a *App) submit() tea.Cmd {
	if strings.TrimSpace(a.theme.Value()) == "" {
		return nil
	}
	attempt, err := a.session.Submit(a.input())
	a.refresh()
	if err != nil {
		if !errors.Is(err, session.ErrBusy) {
			log.Printf("tui: submit rejected: %v", err)
		}
		return nil
	}
	a.status = ""
	return tea.Batch(a.spinner.Tick, a.generateCmd(attempt))
}

func (a *App) generateCmd(attempt *session.Attempt) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg(a.session.Execute(a.ctx, attempt))
	}
}

func (a *App) saveCmd(w world.World) tea.Cmd {
	dir := a.exportDir
	return func() tea.Msg {
		path, err := export.Save(dir, w)
		if err != nil {
			return errMsg{err}
		}
		return savedMsg{path: path}
	}
}

func (a *App) copyCmd(w world.World) tea.Cmd {
	if a.exporter == nil {
		return func() tea.Msg { return copyDoneMsg{err: export.ErrClipboardUnavailable} }
	}
	return func() tea.Msg {
		return copyDoneMsg{err: a.exporter.Copy(a.ctx, w)}
	}
}

func (a *App) input() session.Input {
	return session.Input{
		Theme:      a.theme.Value(),
		Genre:      world.Genres()[a.genreIdx],
		Complexity: world.Complexities()[a.complexityIdx],
	}
}

func (a *App) refresh() {
	a.st = a.session.Snapshot()
}

// syncForm copies the session's inputs back into the widgets.
func (a *App) syncForm() {
	a.theme.SetValue(a.st.Input.Theme)
	a.genreIdx, a.complexityIdx = 0, 0
	for i, g := range world.Genres() {
		if g == a.st.Input.Genre {
			a.genreIdx = i
		}
	}
	for i, c := range world.Complexities() {
		if c == a.st.Input.Complexity {
			a.complexityIdx = i
		}
	}
	a.setFocus(fieldTheme)
}

func (a *App) setFocus(f formField) {
	a.focus = f
	if f == fieldTheme {
		a.theme.Focus()
	} else {
		a.theme.Blur()
	}
}

func (a *App) formActive() bool {
	switch a.st.Status {
	case session.StatusInFlight:
		return false
	case session.StatusLoaded:
		return a.st.World == nil
	default:
		return true
	}
}
