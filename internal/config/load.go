package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name searched for in the working and user
// config directories.
const FileName = "landview.yaml"

// Load loads configuration with priority: defaults < file < flags.
// Relative landscape paths in the file resolve against the file's directory;
// paths given as flags stay relative to the working directory.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
		cfg.Landscape.resolvePaths(filepath.Dir(configPath))
	}

	applyFlags(cfg)

	if _, err := cfg.Landscape.Options(); err != nil {
		return nil, fmt.Errorf("invalid landscape settings: %w", err)
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	for _, path := range []string{
		FileName,
		filepath.Join(ConfigDir(), FileName),
	} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Landscape")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Landscape")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "landscape")
		}
		return filepath.Join(home, ".config", "landscape")
	}
}

// loadFromFile merges a YAML file over cfg. Unknown keys are errors so typos
// do not silently fall back to defaults.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *LandscapeConfig) resolvePaths(dir string) {
	for _, p := range []*string{&c.Heightmap, &c.Archive} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}
