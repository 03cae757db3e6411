// Package clipboard writes text to the user's clipboard, either through a
// platform command or an OSC 52 terminal escape.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrUnavailable means no clipboard mechanism could take the text.
var ErrUnavailable = errors.New("clipboard unavailable")

// Writer puts text on a clipboard.
type Writer interface {
	Write(ctx context.Context, text string) error
}

// Method selects a Writer implementation.
type Method string

const (
	MethodAuto   Method = "auto"
	MethodSystem Method = "system"
	MethodOSC52  Method = "osc52"
	MethodNone   Method = "none"
)

// ParseMethod accepts the config spelling of a method; empty means auto.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return MethodAuto, nil
	case MethodAuto, MethodSystem, MethodOSC52, MethodNone:
		return m, nil
	default:
		return "", fmt.Errorf("unknown clipboard method %q (valid: auto, system, osc52, none)", s)
	}
}

// New builds the writer for a method. OSC 52 sequences go to out.
func New(method Method, out io.Writer) (Writer, error) {
	switch method {
	case MethodAuto, "":
		return NewAuto(NewSystem(), NewOSC52(out)), nil
	case MethodSystem:
		return NewSystem(), nil
	case MethodOSC52:
		return NewOSC52(out), nil
	case MethodNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown clipboard method %q", method)
	}
}

var defaultWriters = [][]string{
	{"pbcopy"},
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
	{"clip.exe"},
}

// System shells out to the first clipboard command found on PATH.
type System struct {
	writers  [][]string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args []string, stdin string) error
}

func NewSystem() *System {
	return &System{writers: defaultWriters, lookPath: exec.LookPath, run: runCommand}
}

func runCommand(ctx context.Context, name string, args []string, stdin string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	return cmd.Run()
}

// Available reports whether any clipboard command is installed.
func (s *System) Available() bool {
	if s == nil {
		return false
	}
	for _, args := range s.writers {
		if _, err := s.lookPath(args[0]); err == nil {
			return true
		}
	}
	return false
}

func (s *System) Write(ctx context.Context, text string) error {
	if s == nil {
		return ErrUnavailable
	}
	var lastErr error
	for _, args := range s.writers {
		if len(args) == 0 {
			continue
		}
		if _, err := s.lookPath(args[0]); err != nil {
			continue
		}
		if err := s.run(ctx, args[0], args[1:], text); err != nil {
			lastErr = fmt.Errorf("%s: %w", args[0], err)
			continue
		}
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
	}
	return fmt.Errorf("%w: no clipboard command found", ErrUnavailable)
}

// OSC52 asks the terminal to set its clipboard with an escape sequence.
// It works over SSH but the terminal may silently ignore it.
type OSC52 struct {
	out    io.Writer
	getenv func(string) string
}

func NewOSC52(out io.Writer) *OSC52 {
	return &OSC52{out: out, getenv: os.Getenv}
}

func (o *OSC52) Write(_ context.Context, text string) error {
	if o == nil || o.out == nil {
		return ErrUnavailable
	}
	seq := osc52.New(text)
	switch {
	case o.getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(o.getenv("TERM"), "screen"):
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(o.out); err != nil {
		return fmt.Errorf("%w: osc52: %v", ErrUnavailable, err)
	}
	return nil
}

// Auto prefers the system clipboard and falls back to OSC 52.
type Auto struct {
	system   *System
	fallback Writer
}

func NewAuto(system *System, fallback Writer) *Auto {
	return &Auto{system: system, fallback: fallback}
}

func (a *Auto) Write(ctx context.Context, text string) error {
	if a.system.Available() {
		err := a.system.Write(ctx, text)
		if err == nil || a.fallback == nil {
			return err
		}
	}
	if a.fallback == nil {
		return ErrUnavailable
	}
	return a.fallback.Write(ctx, text)
}

// None is a clipboard that always refuses.
type None struct{}

func (None) Write(context.Context, string) error { return ErrUnavailable }
