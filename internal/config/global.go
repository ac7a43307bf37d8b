package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/genusmatch/config.yml.
type GlobalConfig struct {
	DefaultDataDir string `yaml:"default_data_dir,omitempty"`
	LogLevel       string `yaml:"log_level,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "genusmatch"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// Environment overrides, also read from a .env file in the working directory.
	EnvDataDir  = "GENUSMATCH_DATA_DIR"
	EnvLogLevel = "GENUSMATCH_LOG_LEVEL"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/genusmatch/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.DefaultDataDir != "" {
		cfg.DefaultDataDir = ExpandPath(cfg.DefaultDataDir)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// Resolve builds the effective configuration. Later sources win:
// defaults, global config, the project file at projectPath, then environment
// variables (including any .env file). Command-line flags are applied by the
// caller on top of the result.
func Resolve(projectPath string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg := Default()

	global, err := LoadGlobalConfig()
	if err != nil {
		return nil, err
	}
	if global.DefaultDataDir != "" {
		cfg.DataDir = global.DefaultDataDir
	}

	cfg, err = loadInto(cfg, projectPath)
	if err != nil {
		return nil, err
	}

	if dir := strings.TrimSpace(os.Getenv(EnvDataDir)); dir != "" {
		cfg.DataDir = dir
	}

	return cfg, nil
}

// LogLevel returns the configured log level name. The environment takes
// precedence over the global config. Empty means the caller's default.
func LogLevel() string {
	if lvl := strings.TrimSpace(os.Getenv(EnvLogLevel)); lvl != "" {
		return lvl
	}
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return ""
	}
	return cfg.LogLevel
}
