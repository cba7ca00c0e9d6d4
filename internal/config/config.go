// Package config handles TOML-based configuration for the CLI. The
// file is parsed as data only; flags override file values which
// override defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds CLI-level configuration.
type Config struct {
	OutputDir      string `toml:"output_dir"`
	Quality        string `toml:"quality"`
	Proxy          string `toml:"proxy"`
	RetryAttempts  int    `toml:"retry_attempts"`
	RequestTimeout int    `toml:"request_timeout_secs"`
	FFmpegPath     string `toml:"ffmpeg_path"`
	Debug          bool   `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		OutputDir:      "./downloads",
		Quality:        "best",
		RetryAttempts:  3,
		RequestTimeout: 30,
	}
}

func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ytgrab"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ytgrab"), nil
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults. A missing file
// yields the defaults.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if !ValidQuality(c.Quality) {
		return fmt.Errorf("unsupported quality %q (valid: best, worst, or a label like 720p)", c.Quality)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry_attempts must be at least 1")
	}
	if c.RequestTimeout < 1 {
		return fmt.Errorf("request_timeout_secs must be at least 1")
	}
	return nil
}

// ValidQuality reports whether q is a sentinel or a resolution label.
func ValidQuality(q string) bool {
	s := strings.ToLower(strings.TrimSpace(q))
	if s == "best" || s == "worst" {
		return true
	}
	p := strings.IndexByte(s, 'p')
	if p <= 0 {
		return false
	}
	for _, r := range s[:p] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ExpandOutputDir resolves ~ in the output directory path.
func (c *Config) ExpandOutputDir() (string, error) {
	dir := c.OutputDir
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}
