// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/timetable/internal/session"
)

// Config holds the application configuration.
type Config struct {
	Mentee  MenteeConfig  `toml:"mentee"`
	Session SessionConfig `toml:"session"`
	LLM     LLMConfig     `toml:"llm"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
}

// MenteeConfig identifies whose timetable this is.
type MenteeConfig struct {
	ID   int64  `toml:"id"`
	Name string `toml:"name"`
}

// SessionConfig holds study session defaults.
type SessionConfig struct {
	DefaultColor   string `toml:"default_color"`   // one of the color tokens
	CommitCooldown string `toml:"commit_cooldown"` // e.g., "300ms"
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte"
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "copilot", "ollama", "lmstudio"
	Model    string `toml:"model"`    // e.g., "gpt-4o"
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Mentee: MenteeConfig{
			ID: 1,
		},
		Session: SessionConfig{
			DefaultColor:   string(session.ColorBlue),
			CommitCooldown: "300ms",
		},
		LLM: LLMConfig{
			Provider: "copilot",
			Model:    "gpt-4o",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "timetable.db"
	}
	return filepath.Join(home, ".local", "share", "timetable", "timetable.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "timetable", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TIMETABLE_MENTEE_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TIMETABLE_MENTEE_ID must be an integer, got %q", v)
		}
		cfg.Mentee.ID = id
	}
	if v := os.Getenv("TIMETABLE_MENTEE_NAME"); v != "" {
		cfg.Mentee.Name = v
	}

	if v := os.Getenv("TIMETABLE_DEFAULT_COLOR"); v != "" {
		cfg.Session.DefaultColor = v
	}
	if v := os.Getenv("TIMETABLE_COMMIT_COOLDOWN"); v != "" {
		cfg.Session.CommitCooldown = v
	}

	if v := os.Getenv("TIMETABLE_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("TIMETABLE_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("TIMETABLE_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v := os.Getenv("TIMETABLE_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("TIMETABLE_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Mentee.ID <= 0 {
		return errors.New("mentee id must be positive")
	}
	if _, err := session.ParseColor(c.Session.DefaultColor); err != nil {
		return fmt.Errorf("default_color: %w", err)
	}
	d, err := time.ParseDuration(c.Session.CommitCooldown)
	if err != nil {
		return fmt.Errorf("commit_cooldown must be a duration, got %q", c.Session.CommitCooldown)
	}
	if d < 0 || d > 10*time.Second {
		return fmt.Errorf("commit_cooldown must be between 0s and 10s, got %s", d)
	}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid llm provider: %s", c.LLM.Provider)
	}
	if !validThemes[c.UI.Theme] {
		return fmt.Errorf("invalid theme: %s", c.UI.Theme)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

var validProviders = map[string]bool{
	"copilot":  true,
	"ollama":   true,
	"lmstudio": true,
}

var validThemes = map[string]bool{
	"mocha": true,
	"latte": true,
}

// DefaultColor returns the configured default color token.
func (c *Config) DefaultColor() session.Color {
	color, err := session.ParseColor(c.Session.DefaultColor)
	if err != nil {
		return session.ColorBlue
	}
	return color
}

// Cooldown returns the reentrancy guard release delay.
func (c *Config) Cooldown() time.Duration {
	d, err := time.ParseDuration(c.Session.CommitCooldown)
	if err != nil {
		return 0
	}
	return d
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
