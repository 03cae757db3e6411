package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/storyworld/internal/clipboard"
	"github.com/jask/storyworld/internal/config"
	"github.com/jask/storyworld/internal/export"
	"github.com/jask/storyworld/internal/generation"
	"github.com/jask/storyworld/internal/secrets"
	"github.com/jask/storyworld/internal/session"
	"github.com/jask/storyworld/internal/tui"
	"github.com/jask/storyworld/internal/validate"
	"github.com/jask/storyworld/internal/view"
	"github.com/jask/storyworld/internal/world"
)

func main() {
	var (
		configPath = flag.String("config", "", "config file (default $STORYWORLD_CONFIG or ~/.config/storyworld/config.toml)")
		theme      = flag.String("theme", "", "world theme")
		genre      = flag.String("genre", "", "genre: fantasy, sci-fi or steampunk")
		complexity = flag.String("complexity", "", "complexity: simple, medium or complex")
		printOnly  = flag.Bool("print", false, "generate one world and write its JSON to stdout")
		saveToken  = flag.Bool("save-token", false, "read an endpoint token from stdin and store it")
	)
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if *saveToken {
		if err := storeToken(cfg.Generation.Endpoint, os.Stdin); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Printf("token saved for %s\n", cfg.Generation.Endpoint)
		return
	}

	if cfg.Log.Path != "" {
		f, err := tea.LogToFile(cfg.Log.Path, "storyworld")
		if err != nil {
			log.Fatalf("log file: %v", err)
		}
		defer f.Close()
	} else {
		// the terminal belongs to the UI
		log.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := generation.NewClientWithTimeout(cfg.Generation.Endpoint, resolveToken(cfg), cfg.Generation.Timeout)
	ctrl := session.New(client, view.New(),
		session.WithDefaults(world.Genre(cfg.UI.Genre), world.Complexity(cfg.UI.Complexity)))
	in := flagInput(*theme, *genre, *complexity)

	if *printOnly {
		code := runPrint(ctx, ctrl, in, os.Stdout, os.Stderr)
		stop()
		os.Exit(code)
	}

	if err := ctrl.SetInput(in); err != nil {
		log.Printf("initial input: %v", err)
	}

	clip, err := clipboard.New(clipboard.Method(cfg.Clipboard.Method), os.Stderr)
	if err != nil {
		log.Fatalf("clipboard: %v", err)
	}
	exp := export.NewCoordinator(clip)
	defer exp.Close()

	p := tea.NewProgram(tui.New(ctx, tui.Deps{
		Session:   ctrl,
		Exporter:  exp,
		ExportDir: cfg.Export.Dir,
	}), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		fmt.Printf("error: %v\n", err)
	}
}

// flagInput keeps only selections that parse; the rest fall back to the
// configured defaults.
func flagInput(theme, genre, complexity string) session.Input {
	in := session.Input{Theme: theme}
	if genre != "" {
		if g, err := validate.Genre(genre); err == nil {
			in.Genre = g
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	if complexity != "" {
		if c, err := validate.Complexity(complexity); err == nil {
			in.Complexity = c
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return in
}

func runPrint(ctx context.Context, ctrl *session.Controller, in session.Input, stdout, stderr io.Writer) int {
	if err := ctrl.Generate(ctx, in); err != nil {
		msg := ctrl.Snapshot().Error
		if msg == "" {
			msg = err.Error()
		}
		fmt.Fprintln(stderr, msg)
		return 1
	}
	st := ctrl.Snapshot()
	data, err := export.Serialize(*st.World)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, string(data))
	return 0
}

func resolveToken(cfg config.Config) string {
	if env := strings.TrimSpace(cfg.Generation.TokenEnv); env != "" {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	if t, err := secrets.FetchToken(cfg.Generation.Endpoint); err == nil {
		return t
	}
	return strings.TrimSpace(cfg.Generation.Token)
}

func storeToken(endpoint string, r io.Reader) error {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	return secrets.StoreToken(endpoint, strings.TrimSpace(line))
}
