package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("STORYWORLD_CONFIG", filepath.Join(home, "missing.toml"))
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000/generate-world", c.Generation.Endpoint)
	require.Zero(t, c.Generation.Timeout)
	require.Equal(t, "STORYWORLD_TOKEN", c.Generation.TokenEnv)
	require.Empty(t, c.Generation.Token)
	require.Equal(t, filepath.Join(home, "storyworlds"), c.Export.Dir)
	require.Equal(t, "auto", c.Clipboard.Method)
	require.Empty(t, c.Log.Path)
	require.Equal(t, "fantasy", c.UI.Genre)
	require.Equal(t, "medium", c.UI.Complexity)
	require.Equal(t, ":8000", c.Fixture.Addr)
	require.Equal(t, "fixtures", c.Fixture.Dir)
	require.Zero(t, c.Fixture.Rate)
}

func TestLoadReadsFileAndEnv(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[generation]
endpoint = "https://worlds.example.com/generate-world"
timeout = "45s"

[export]
dir = "~/exports"

[ui]
genre = "Sci-Fi"
complexity = "complex"

[fixture]
rate = 2.5
`), 0o600))
	t.Setenv("STORYWORLD_CLIPBOARD_METHOD", "osc52")

	c, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "https://worlds.example.com/generate-world", c.Generation.Endpoint)
	require.Equal(t, 45*time.Second, c.Generation.Timeout)
	require.Equal(t, filepath.Join(home, "exports"), c.Export.Dir)
	require.Equal(t, "sci-fi", c.UI.Genre)
	require.Equal(t, "complex", c.UI.Complexity)
	require.Equal(t, "osc52", c.Clipboard.Method)
	require.Equal(t, 2.5, c.Fixture.Rate)
}

func TestEnvOverridesFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ngenre = \"fantasy\"\n"), 0o600))
	t.Setenv("STORYWORLD_CONFIG", path)
	t.Setenv("STORYWORLD_UI_GENRE", "steampunk")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "steampunk", c.UI.Genre)
}

func TestLoadRejectsUnknownGenreWithSuggestion(t *testing.T) {
	isolate(t)
	t.Setenv("STORYWORLD_UI_GENRE", "stempunk")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "ui.genre")
	require.Contains(t, err.Error(), `did you mean "steampunk"`)
}

func TestLoadRejectsBadClipboardMethod(t *testing.T) {
	isolate(t)
	t.Setenv("STORYWORLD_CLIPBOARD_METHOD", "fax")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "clipboard.method")
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui\ngenre = "), 0o600))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestSaveRoundTrips(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "nested", "config.toml")

	c, err := Load()
	require.NoError(t, err)
	c.Generation.Endpoint = "http://127.0.0.1:9000/generate-world"
	c.Generation.Timeout = 90 * time.Second
	c.UI.Genre = "steampunk"
	c.Clipboard.Method = "none"

	require.NoError(t, SaveFile(path, c))
	got, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, c, got)
}

func TestPathPrecedence(t *testing.T) {
	home := isolate(t)
	require.Equal(t, "/etc/storyworld.toml", Path("/etc/storyworld.toml"))
	require.Equal(t, filepath.Join(home, "missing.toml"), Path(""))

	t.Setenv("STORYWORLD_CONFIG", "")
	require.Equal(t, filepath.Join(home, ".config", "storyworld", "config.toml"), Path(""))
}
