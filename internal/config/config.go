package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/storyworld/internal/clipboard"
	"github.com/jask/storyworld/internal/validate"
)

// Config holds application configuration.
type Config struct {
	Generation GenerationConfig `mapstructure:"generation"`
	Export     ExportConfig     `mapstructure:"export"`
	Clipboard  ClipboardConfig  `mapstructure:"clipboard"`
	Log        LogConfig        `mapstructure:"log"`
	UI         UIConfig         `mapstructure:"ui"`
	Fixture    FixtureConfig    `mapstructure:"fixture"`
}

// GenerationConfig points at the remote world generator.
type GenerationConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
	TokenEnv string        `mapstructure:"token_env"`
	Token    string        `mapstructure:"token"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// ClipboardConfig.Method is one of auto, system, osc52, none.
type ClipboardConfig struct {
	Method string `mapstructure:"method"`
}

// LogConfig.Path enables file logging when set.
type LogConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds the form's initial selections.
type UIConfig struct {
	Genre      string `mapstructure:"genre"`
	Complexity string `mapstructure:"complexity"`
}

// FixtureConfig configures the fixture replay server. Rate is requests per
// second; zero disables limiting.
type FixtureConfig struct {
	Addr string  `mapstructure:"addr"`
	Dir  string  `mapstructure:"dir"`
	Rate float64 `mapstructure:"rate"`
}

// Path resolves the config file location: explicit, then STORYWORLD_CONFIG,
// then ~/.config/storyworld/config.toml.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv("STORYWORLD_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "storyworld", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix STORYWORLD_.
func Load() (Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path; empty falls back to Path.
func LoadFile(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("generation.endpoint", "http://localhost:8000/generate-world")
	v.SetDefault("generation.timeout", "0s")
	v.SetDefault("generation.token_env", "STORYWORLD_TOKEN")
	v.SetDefault("generation.token", "")
	v.SetDefault("export.dir", filepath.Join(os.Getenv("HOME"), "storyworlds"))
	v.SetDefault("clipboard.method", string(clipboard.MethodAuto))
	v.SetDefault("log.path", "")
	v.SetDefault("ui.genre", "fantasy")
	v.SetDefault("ui.complexity", "medium")
	v.SetDefault("fixture.addr", ":8000")
	v.SetDefault("fixture.dir", "fixtures")
	v.SetDefault("fixture.rate", 0)

	v.SetConfigType("toml")
	v.SetConfigFile(Path(path))

	v.SetEnvPrefix("STORYWORLD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine, a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.normalize(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) normalize() error {
	genre, err := validate.Genre(c.UI.Genre)
	if err != nil {
		return fmt.Errorf("ui.genre: %w", err)
	}
	complexity, err := validate.Complexity(c.UI.Complexity)
	if err != nil {
		return fmt.Errorf("ui.complexity: %w", err)
	}
	method, err := clipboard.ParseMethod(c.Clipboard.Method)
	if err != nil {
		return fmt.Errorf("clipboard.method: %w", err)
	}
	if c.Generation.Timeout < 0 {
		return fmt.Errorf("generation.timeout: must not be negative")
	}
	if c.Fixture.Rate < 0 {
		return fmt.Errorf("fixture.rate: must not be negative")
	}
	c.UI.Genre = string(genre)
	c.UI.Complexity = string(complexity)
	c.Clipboard.Method = string(method)
	c.Generation.Endpoint = strings.TrimSpace(c.Generation.Endpoint)
	c.Export.Dir = expandHome(c.Export.Dir)
	c.Log.Path = expandHome(c.Log.Path)
	return nil
}

func expandHome(p string) string {
	if p == "~" {
		return os.Getenv("HOME")
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(os.Getenv("HOME"), p[2:])
	}
	return p
}

// Save writes the provided config to disk, creating the config directory if needed.
// The token is stored in plain text; prefer the env var or the secrets store.
func Save(cfg Config) error {
	return SaveFile("", cfg)
}

func SaveFile(path string, cfg Config) error {
	path = Path(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("generation.endpoint", cfg.Generation.Endpoint)
	v.Set("generation.timeout", cfg.Generation.Timeout.String())
	v.Set("generation.token_env", cfg.Generation.TokenEnv)
	v.Set("generation.token", cfg.Generation.Token)
	v.Set("export.dir", cfg.Export.Dir)
	v.Set("clipboard.method", cfg.Clipboard.Method)
	v.Set("log.path", cfg.Log.Path)
	v.Set("ui.genre", cfg.UI.Genre)
	v.Set("ui.complexity", cfg.UI.Complexity)
	v.Set("fixture.addr", cfg.Fixture.Addr)
	v.Set("fixture.dir", cfg.Fixture.Dir)
	v.Set("fixture.rate", cfg.Fixture.Rate)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
