package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

//go:embed dsk2dc.toml
var defaultConfigData []byte

// Global settings, valid after Initialize
var (
	Path      string
	MacBinary bool
	Verify    bool
	OutputDir string
	LogLevel  slog.Level
)

// Config represents the entire TOML configuration structure
type Config struct {
	MacBinary bool   `toml:"macbinary"`
	Verify    bool   `toml:"verify"`
	OutputDir string `toml:"output_dir"`
	LogLevel  string `toml:"log_level"`

	Level slog.Level `toml:"-"` // parsed from LogLevel by Load
}

// configPath determines the config file path based on the operating system
func configPath() (string, error) {
	var configDir string
	var err error

	switch runtime.GOOS {
	case "windows":
		// Use AppData directory for Windows
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "dsk2dc")
	default:
		// Linux/macOS: use home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine user home directory: %w", err)
		}
	}

	return filepath.Join(configDir, ".dsk2dc"), nil
}

// parseLogLevel accepts the names understood by slog.Level.
func parseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if name == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", name, err)
	}
	return level, nil
}

// Load parses and validates the configuration file at path.
func Load(path string) (*Config, error) {
	var conf Config
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config at %s: %w", path, err)
	}
	level, err := parseLogLevel(conf.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	conf.Level = level
	if conf.OutputDir != "" {
		info, err := os.Stat(conf.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("config %s: output_dir: %w", path, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("config %s: output_dir %q is not a directory", path, conf.OutputDir)
		}
	}
	return &conf, nil
}

// Initialize loads and validates the configuration file.
// If the config file doesn't exist, it creates it from the embedded default.
func Initialize() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Create parent directory if needed (for Windows)
		configDir := filepath.Dir(path)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
		}

		if err := os.WriteFile(path, defaultConfigData, 0644); err != nil {
			return fmt.Errorf("failed to create default config file at %s: %w", path, err)
		}
	}

	conf, err := Load(path)
	if err != nil {
		return err
	}

	Path = path
	MacBinary = conf.MacBinary
	Verify = conf.Verify
	OutputDir = conf.OutputDir
	LogLevel = conf.Level
	return nil
}
