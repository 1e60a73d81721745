package config

import (
	"encoding/json"
	"os"

	"github.com/smart-cat-ai/smartcat-cli/internal/plugin"
)

type Config struct {
	Repository string `json:"repository"`
	Branch     string `json:"branch"`
	KicadDir   string `json:"kicad_dir"`
	Debug      bool   `json:"debug"`
}

// Load builds the configuration from defaults, an optional JSON config file,
// and environment overrides, in that order. A missing config file is not an
// error.
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		Repository: plugin.DefaultRepository,
		Branch:     plugin.DefaultBranch,
	}

	if configPath == "" {
		configPath = os.Getenv("SMARTCAT_CONFIG_PATH")
		if configPath == "" {
			configPath = "smartcat-config.json"
		}
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("SMARTCAT_REPO"); v != "" {
		cfg.Repository = v
	}
	if v := os.Getenv("SMARTCAT_BRANCH"); v != "" {
		cfg.Branch = v
	}
	if v := os.Getenv("SMARTCAT_KICAD_DIR"); v != "" {
		cfg.KicadDir = v
	}
	if v := os.Getenv("SMARTCAT_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}

	return cfg, nil
}
