package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables read by FromEnv.
const (
	EnvURL      = "ODOO_URL"
	EnvDatabase = "ODOO_DB"
	EnvUsername = "ODOO_USERNAME"
	EnvAPIKey   = "ODOO_API_KEY"
	EnvDebug    = "ODOO_DEBUG"
)

// Load reads a YAML configuration file. Durations are written as Go duration
// strings ("250ms", "2s"). The result is not validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	c := new(Config)
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// FromEnv builds a Config from environment variables using lookup
// (os.LookupEnv when nil). Unset variables leave fields empty.
func FromEnv(lookup func(string) (string, bool)) *Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	c := new(Config)
	if v, ok := lookup(EnvURL); ok {
		c.URL = v
	}
	if v, ok := lookup(EnvDatabase); ok {
		c.Database = v
	}
	if v, ok := lookup(EnvUsername); ok {
		c.Username = v
	}
	if v, ok := lookup(EnvAPIKey); ok {
		c.APIKey = v
	}
	if v, ok := lookup(EnvDebug); ok {
		c.Debug, _ = strconv.ParseBool(v)
	}
	return c
}

// Merge returns a copy of c where every non-empty connection field of
// override replaces the corresponding field. Debug is OR-ed.
func (c Config) Merge(override *Config) Config {
	if override == nil {
		return c
	}
	if override.URL != "" {
		c.URL = override.URL
	}
	if override.Database != "" {
		c.Database = override.Database
	}
	if override.Username != "" {
		c.Username = override.Username
	}
	if override.APIKey != "" {
		c.APIKey = override.APIKey
	}
	c.Debug = c.Debug || override.Debug
	return c
}
