package main

import (
	"errors"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file schema. Every value can
// also be supplied through environment variables, which take precedence.
type Config struct {
	DBPath string `yaml:"dbPath"`

	Notion struct {
		Token      string `yaml:"token"`
		DatabaseID string `yaml:"databaseId"`
	} `yaml:"notion"`

	Defaults struct {
		City     string `yaml:"city"`
		Category string `yaml:"category"`
	} `yaml:"defaults"`
}

// LoadConfig reads the config file at path and applies environment
// overrides. An empty path returns a config built from the environment
// alone; a non-empty path must exist.
func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return nil, err
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	}

	if v := os.Getenv("MAPSCAN_DB"); v != "" {
		config.DBPath = v
	}
	if v := os.Getenv("NOTION_TOKEN"); v != "" {
		config.Notion.Token = v
	}
	if v := os.Getenv("NOTION_DATABASE_ID"); v != "" {
		config.Notion.DatabaseID = v
	}

	return config, nil
}
