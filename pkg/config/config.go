// Package config loads the quest configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name inside the data directory.
const FileName = "config.yaml"

// Defaults.
const (
	DefaultGoalsFile = "goals.txt"
	DefaultLogLevel  = "info"
)

// Config is the contents of config.yaml.
type Config struct {
	GoalsFile string `yaml:"goals_file"`
	LogLevel  string `yaml:"log_level"`
	Autoload  bool   `yaml:"autoload"`
	Autosave  bool   `yaml:"autosave"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		GoalsFile: DefaultGoalsFile,
		LogLevel:  DefaultLogLevel,
		Autoload:  true,
		Autosave:  true,
	}
}

// Path returns the config file path for a data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Load reads config.yaml from dataDir. A missing file yields Default().
// Keys left out of the file keep their default values.
func Load(dataDir string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(Path(dataDir))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	if cfg.GoalsFile == "" {
		cfg.GoalsFile = DefaultGoalsFile
	}
	return cfg, nil
}

// Save writes cfg to config.yaml in dataDir, creating the directory.
func Save(dataDir string, cfg *Config) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("serializing config: %w", err)
	}
	return os.WriteFile(Path(dataDir), data, 0o644)
}

// GoalsPath resolves the goals file against dataDir unless it is absolute.
func (c *Config) GoalsPath(dataDir string) string {
	if filepath.IsAbs(c.GoalsFile) {
		return c.GoalsFile
	}
	return filepath.Join(dataDir, c.GoalsFile)
}
