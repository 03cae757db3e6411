package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/storyworld/internal/config"
	"github.com/jask/storyworld/internal/fixture"
	"github.com/jask/storyworld/internal/generation"
	"github.com/jask/storyworld/internal/sample"
	"github.com/jask/storyworld/internal/secrets"
	"github.com/jask/storyworld/internal/session"
	"github.com/jask/storyworld/internal/world"
)

func TestRunPrintWritesWorldJSON(t *testing.T) {
	srv := httptest.NewServer(fixture.NewServer(fixture.NewStore(sample.World(world.GenreSciFi))).Handler())
	t.Cleanup(srv.Close)

	ctrl := session.New(generation.NewClient(srv.URL+"/generate-world", "", srv.Client()), nil)
	var stdout, stderr bytes.Buffer
	code := runPrint(context.Background(), ctrl, flagInput("ocean world", "Sci-Fi", ""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	w, err := world.Decode(stdout.Bytes())
	require.NoError(t, err)
	require.Equal(t, "Nova Prime", w.Title)
	require.Equal(t, "ocean world", w.Theme)
	require.Equal(t, "medium", w.Complexity)
}

func TestRunPrintReportsUserMessage(t *testing.T) {
	ctrl := session.New(generation.NewClient("http://127.0.0.1:1/generate-world", "", nil), nil)
	var stdout, stderr bytes.Buffer
	code := runPrint(context.Background(), ctrl, flagInput("ab", "", ""), &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Empty(t, stdout.String())
	require.Equal(t, "Theme must be at least 3 characters long.\n", stderr.String())
}

func TestResolveTokenPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("STORYWORLD_TEST_TOKEN", "")

	cfg := config.Config{Generation: config.GenerationConfig{
		Endpoint: "http://localhost:8000/generate-world",
		TokenEnv: "STORYWORLD_TEST_TOKEN",
		Token:    "from-config",
	}}
	require.Equal(t, "from-config", resolveToken(cfg))

	require.NoError(t, storeToken(cfg.Generation.Endpoint, strings.NewReader("from-store\n")))
	require.Equal(t, "from-store", resolveToken(cfg))

	t.Setenv("STORYWORLD_TEST_TOKEN", "from-env")
	require.Equal(t, "from-env", resolveToken(cfg))

	require.NoError(t, secrets.DeleteToken(cfg.Generation.Endpoint))
}

func TestFlagInputDropsUnknownSelections(t *testing.T) {
	in := flagInput("desert planet", "fantsy", "COMPLEX")
	require.Equal(t, session.Input{Theme: "desert planet", Complexity: world.ComplexityComplex}, in)
}
