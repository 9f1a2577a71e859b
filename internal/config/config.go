// Package config loads the cmsgen.json project configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the configuration file cmsgen looks for.
const FileName = "cmsgen.json"

// Artifacts are the per-artifact enable flags.
type Artifacts struct {
	Types    bool `json:"types"`
	Schemas  bool `json:"schemas"`
	Services bool `json:"services"`
	Actions  bool `json:"actions"`
	Upload   bool `json:"upload"`
}

// Config represents the cmsgen.json configuration file.
type Config struct {
	URL       string `json:"url"`
	Token     string `json:"token"`
	APIPrefix string `json:"apiPrefix"`

	// Version is the target CMS version ("v4" or "v5"). The generate
	// command may override it with a detected version.
	Version string `json:"version"`

	Output string `json:"output"`

	// Layout is "by-layer" or "by-feature".
	Layout string `json:"layout"`

	// Language is "typescript" or "javascript"; ModuleSystem ("esm" or
	// "cjs") only applies to javascript output.
	Language     string `json:"language"`
	ModuleSystem string `json:"moduleSystem"`

	AdvancedRelations bool      `json:"advancedRelations"`
	Artifacts         Artifacts `json:"artifacts"`
}

// Load searches for cmsgen.json in the current directory and its parents
// and returns the config along with the directory holding it.
func Load() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return loadFromDir(dir)
}

// LoadFromPath loads the configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// The artifact defaults apply only when the config has no artifacts
	// block; an explicit block, even a partial one, replaces the set.
	var probe struct {
		Artifacts json.RawMessage `json:"artifacts"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && probe.Artifacts == nil {
		cfg.Artifacts = Artifacts{Types: true, Schemas: true, Services: true}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:1337"
	}
	if c.APIPrefix == "" {
		c.APIPrefix = "/api"
	}
	if c.Version == "" {
		c.Version = "v5"
	}
	if c.Output == "" {
		c.Output = "./src/cms"
	}
	if c.Layout == "" {
		c.Layout = "by-layer"
	}
	if c.Language == "" {
		c.Language = "typescript"
	}
	if c.ModuleSystem == "" {
		c.ModuleSystem = "esm"
	}
}

func loadFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			cfg, err := LoadFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return cfg, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, "", fmt.Errorf("no %s found in %s or any parent directory", FileName, startDir)
}

// Write saves the configuration to dir, pretty-printed.
func (c *Config) Write(dir string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, FileName), append(data, '\n'), 0o644)
}
