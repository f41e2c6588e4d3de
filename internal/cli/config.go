package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/reflow/pkg/pipeline"
)

// Config holds user-level defaults loaded from the config file.
//
// The file lives at ~/.config/reflow/config.toml (or under XDG_CONFIG_HOME)
// and every field is optional:
//
//	[render]
//	formats = ["svg", "dot"]
//	detailed = true
//
//	[cache]
//	disabled = false
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
}

// RenderConfig holds default render settings.
type RenderConfig struct {
	// Formats lists the default output formats when --format is not given.
	Formats []string `toml:"formats"`

	// Detailed includes slot renames and locations in DOT labels.
	Detailed bool `toml:"detailed"`
}

// CacheConfig holds artifact cache settings.
type CacheConfig struct {
	// Disabled turns off the artifact cache for all commands.
	Disabled bool `toml:"disabled"`
}

// configFile is the name of the config file inside the config directory.
const configFile = "config.toml"

// LoadConfig reads the user's config file. A missing file is not an error
// and yields the zero Config; a malformed file is reported so the caller
// can warn and continue with defaults.
func LoadConfig() (Config, error) {
	dir, err := configDir()
	if err != nil {
		return Config{}, nil
	}
	return loadConfigFile(filepath.Join(dir, configFile))
}

func loadConfigFile(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := pipeline.ValidateFormats(cfg.Render.Formats); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}
