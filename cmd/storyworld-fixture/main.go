package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jask/storyworld/internal/config"
	"github.com/jask/storyworld/internal/fixture"
	"github.com/jask/storyworld/internal/sample"
	"github.com/jask/storyworld/internal/world"
)

func main() {
	configPath := flag.String("config", "", "config file (default $STORYWORLD_CONFIG or ~/.config/storyworld/config.toml)")
	addr := flag.String("addr", "", "listen address (default fixture.addr)")
	dir := flag.String("dir", "", "fixture directory (default fixture.dir)")
	perSecond := flag.Float64("rate", -1, "requests per second before answering 429, 0 for unlimited (default fixture.rate)")
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *addr == "" {
		*addr = cfg.Fixture.Addr
	}
	if *dir == "" {
		*dir = cfg.Fixture.Dir
	}
	if *perSecond < 0 {
		*perSecond = cfg.Fixture.Rate
	}

	store, err := loadStore(*dir)
	if err != nil {
		log.Fatalf("fixtures: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := fixture.NewServer(store, fixture.WithRateLimit(*perSecond, 1))
	if err := srv.ListenAndServe(ctx, *addr, nil); err != nil {
		log.Fatalf("fixture server: %v", err)
	}
}

// loadStore falls back to the built-in sample worlds when dir does not exist.
func loadStore(dir string) (*fixture.Store, error) {
	store, err := fixture.Load(dir)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("fixture: %s not found, serving built-in samples", dir)
		samples := make([]world.World, 0, len(world.Genres()))
		for _, g := range world.Genres() {
			samples = append(samples, sample.World(g))
		}
		return fixture.NewStore(samples...), nil
	}
	return store, err
}
