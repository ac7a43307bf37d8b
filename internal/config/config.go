// Package config handles project, global and environment configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents project configuration stored in genusmatch.yml.
type Config struct {
	DataDir      string  `yaml:"data_dir"`                // Directory holding <family>_genera.txt and <family>_abstracts_full.txt
	FamiliesFile string  `yaml:"families_file,omitempty"` // One family name per line, used by batch
	Threshold    float64 `yaml:"threshold"`               // Match cutoff in percent (strict >)
	Mode         string  `yaml:"mode"`                    // Vocabulary mode: pairwise or global
	Workers      int     `yaml:"workers"`                 // Documents scored concurrently; <= 1 is sequential
	OutDir       string  `yaml:"out_dir,omitempty"`       // Where batch figures are written
	History      bool    `yaml:"history"`                 // Record runs to the history log
	HistoryDir   string  `yaml:"history_dir,omitempty"`   // Where runs.jsonl and the query cache live
}

const (
	ConfigFile      = "genusmatch.yml"
	DefaultDataDir  = "_data_"
	DefaultFamilies = "families.txt"
	DefaultMode     = "pairwise"
	DefaultHistory  = ".genusmatch"
	RunsFile        = "runs.jsonl"
	CacheDir        = "cache"
	DBFile          = "runs.db"

	// DefaultThreshold is the percent similarity a document must exceed.
	DefaultThreshold = 1.0
)

// ValidModes lists the supported vocabulary modes.
var ValidModes = []string{"pairwise", "global"}

// Default returns the configuration used when no genusmatch.yml exists.
func Default() *Config {
	return &Config{
		DataDir:      DefaultDataDir,
		FamiliesFile: DefaultFamilies,
		Threshold:    DefaultThreshold,
		Mode:         DefaultMode,
		Workers:      1,
		OutDir:       ".",
		HistoryDir:   DefaultHistory,
	}
}

// ConfigPath returns the path to genusmatch.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigFile)
}

// RunsPath returns the path to runs.jsonl under the history directory.
func (c *Config) RunsPath() string {
	return filepath.Join(ExpandPath(c.HistoryDir), RunsFile)
}

// DBPath returns the path to the run history query cache.
func (c *Config) DBPath() string {
	return filepath.Join(ExpandPath(c.HistoryDir), CacheDir, DBFile)
}

// FamiliesPath resolves the families file relative to the data directory
// unless it is absolute.
func (c *Config) FamiliesPath() string {
	p := ExpandPath(c.FamiliesFile)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(ExpandPath(c.DataDir), p)
}

// Load reads configuration from the given file path.
// A missing file yields Default() rather than an error.
func Load(path string) (*Config, error) {
	return loadInto(Default(), path)
}

// loadInto overlays the file at path onto cfg. Keys absent from the file
// keep their current values.
func loadInto(cfg *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the given file path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if err := ValidateMode(c.Mode); err != nil {
		return err
	}
	if c.Threshold < 0 || c.Threshold > 100 {
		return fmt.Errorf("invalid threshold: %g (must be within 0-100)", c.Threshold)
	}
	return nil
}

// ValidateMode checks that the vocabulary mode is supported.
func ValidateMode(mode string) error {
	for _, valid := range ValidModes {
		if mode == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid mode: %s (valid: %v)", mode, ValidModes)
}

// ValidateDataDir checks that the data directory exists and is a directory.
func ValidateDataDir(path string) error {
	expandedPath := ExpandPath(path)

	info, err := os.Stat(expandedPath)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", expandedPath)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", expandedPath)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
