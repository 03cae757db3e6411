package generation

import (
	"context"

	"github.com/jask/storyworld/internal/world"
)

// Generator produces a world for a request. Implementations make a single
// attempt and never retry.
type Generator interface {
	Generate(ctx context.Context, req world.Request) (world.World, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req world.Request) (world.World, error)

func (f GeneratorFunc) Generate(ctx context.Context, req world.Request) (world.World, error) {
	return f(ctx, req)
}
