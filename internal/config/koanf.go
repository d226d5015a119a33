package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/catalogcore/internal/reqvalidate"
)

// DefaultConfigPaths lists where a config file is searched, in priority
// order; the first one found wins.
var DefaultConfigPaths = []string{
	"catalogcore.yaml",
	"catalogcore.yml",
	"/etc/catalogcore/config.yaml",
	"/etc/catalogcore/config.yml",
}

// ConfigPathEnvVar overrides the config file search with an explicit path.
const ConfigPathEnvVar = "CATALOGCORE_CONFIG"

// Load resolves Config from, in increasing priority: built-in defaults,
// an optional YAML file, then environment variables (CATALOGCORE_*).
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("CATALOGCORE_", ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

// envTransform turns CATALOGCORE_API_URL into api.url, CATALOGCORE_BUS_NATS_URL
// into bus.nats_url, matching the nested koanf struct tags above.
func envTransform(s string) string {
	s = strings.TrimPrefix(s, "CATALOGCORE_")
	s = strings.ToLower(s)
	parts := strings.SplitN(s, "_", 2)
	if len(parts) != 2 {
		return s
	}
	return parts[0] + "." + parts[1]
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate rejects a configuration that would leave the core unable to
// function. Struct-tag rules (required fields, URL shape, enum values)
// run through the shared reqvalidate validator; cross-field rules that
// tags can't express follow.
func (c *Config) Validate() error {
	if err := reqvalidate.ValidateStruct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Breaker.RequestTimeout <= 0 {
		return fmt.Errorf("config: breaker.request_timeout must be positive")
	}
	return nil
}
