package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Version is the version of the tool, set at build time.
var Version = "0.1.0"

// ApplicationConfiguration contains the tool level settings.
type ApplicationConfiguration struct {
	LogEncoding string `yaml:"LogEncoding"`
	LogLevel    string `yaml:"LogLevel"`
	LogPath     string `yaml:"LogPath"`
}

// Validate returns an error if the configuration is not valid.
func (a ApplicationConfiguration) Validate() error {
	if len(a.LogEncoding) > 0 && a.LogEncoding != "console" && a.LogEncoding != "json" {
		return fmt.Errorf("invalid LogEncoding: %s", a.LogEncoding)
	}
	return nil
}

// Load reads the application configuration from a YAML file.
func Load(path string) (ApplicationConfiguration, error) {
	var cfg ApplicationConfiguration

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
