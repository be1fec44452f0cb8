package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/one-and-all/internal/sim"
)

// Load loads the configuration.
// Search order: customPath -> ~/.oneandall/config.yaml -> ./configs/oneandall.yaml -> embedded default
//
// Files are decoded over the defaults, so a file only needs the keys it
// changes.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if p := userConfigPath("config.yaml"); p != "" {
		if data, err := os.ReadFile(p); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile("configs/oneandall.yaml"); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML over DefaultConfig and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.World.MaxMoons < 0 {
		errs = append(errs, fmt.Errorf("world.max_moons must be >= 0, got %d", c.World.MaxMoons))
	}
	for _, f := range []struct {
		name string
		v    float32
	}{
		{"world.player_ease", c.World.PlayerEase},
		{"world.joining_ease", c.World.JoiningEase},
		{"world.camera_ease", c.World.CameraEase},
		{"world.text_rate", c.World.TextRate},
	} {
		if f.v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be > 0, got %v", f.name, f.v))
		}
	}
	if c.Spawn.PlanetOdds < 0 || c.Spawn.StarOdds < 0 || c.Spawn.PlanetOdds+c.Spawn.StarOdds > 1 {
		errs = append(errs, fmt.Errorf("spawn odds must be non-negative and sum to at most 1, got %v + %v",
			c.Spawn.PlanetOdds, c.Spawn.StarOdds))
	}
	if v := c.Save.Version; v != int(sim.VersionLegacy) && v != int(sim.VersionTagged) {
		errs = append(errs, fmt.Errorf("save.version %d: %w", v, sim.ErrUnsupportedVersion))
	}
	return errors.Join(errs...)
}

// DataDir returns ~/.oneandall, or "." if the home directory is unknown.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".oneandall")
}

// ExpandPath replaces a leading ~ with the home directory.
func ExpandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".oneandall", filename)
}
