/*
Package config manages the TOML config shared by the wordfuzz binaries.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordfuzz/internal/utils"
	"github.com/bastiangx/wordfuzz/pkg/dictionary"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Search SearchConfig `toml:"search"`
	Dict   DictConfig   `toml:"dict"`
	Build  BuildConfig  `toml:"build"`
	CLI    CliConfig    `toml:"cli"`
}

// SearchConfig holds the query thresholds and worker setup.
type SearchConfig struct {
	MaxLengthDiff int    `toml:"max_length_diff"`
	MaxDistance   int    `toml:"max_distance"`
	Workers       int    `toml:"workers"`
	FoldCase      bool   `toml:"fold_case"`
	Runner        string `toml:"runner"` // "local" or "process"
	Buffer        int    `toml:"buffer"`
}

// DictConfig holds dictionary location options.
type DictConfig struct {
	Path   string `toml:"path"`
	Format string `toml:"format"`
}

// BuildConfig holds dictbuild defaults.
type BuildConfig struct {
	Format string `toml:"format"`
	Runs   int    `toml:"runs"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	Runs    int `toml:"runs"`
	Verbose int `toml:"verbose"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			MaxLengthDiff: 5,
			MaxDistance:   5,
			Workers:       4,
			FoldCase:      false,
			Runner:        "local",
			Buffer:        1024,
		},
		Dict: DictConfig{
			Path:   "dictionary",
			Format: "auto",
		},
		Build: BuildConfig{
			Format: "fixed",
			Runs:   4,
		},
		CLI: CliConfig{
			Runs:    1,
			Verbose: 0,
		},
	}
}

// Validate checks values that would otherwise fail deep inside a search.
func (c *Config) Validate() error {
	if c.Search.MaxLengthDiff < 0 || c.Search.MaxDistance < 0 {
		return fmt.Errorf("search thresholds must not be negative")
	}
	if c.Search.Workers < 0 {
		return fmt.Errorf("search.workers must not be negative, got %d", c.Search.Workers)
	}
	if c.Search.Runner != "local" && c.Search.Runner != "process" {
		return fmt.Errorf("search.runner must be \"local\" or \"process\", got %q", c.Search.Runner)
	}
	if _, err := dictionary.ParseFormat(c.Dict.Format); err != nil {
		return fmt.Errorf("dict.format: %w", err)
	}
	f, err := dictionary.ParseFormat(c.Build.Format)
	if err != nil {
		return fmt.Errorf("build.format: %w", err)
	}
	if f == dictionary.FormatAuto {
		return fmt.Errorf("build.format must be fixed or variable")
	}
	if c.Build.Runs < 1 {
		return fmt.Errorf("build.runs must be at least 1, got %d", c.Build.Runs)
	}
	return nil
}

// GetConfigDir returns the config directory with fallback priority:
// 1. platform config dir (~/.config/wordfuzz, $XDG_CONFIG_HOME, %APPDATA%)
// 2. Current executable dir
func GetConfigDir() (string, error) {
	primaryPath := utils.UserConfigDir()
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/wordfuzz/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. A file that fails to decode as a whole
// is parsed section by section so valid keys still apply. Values that fail
// validation are reported as an error.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		config = tryPartialParse(configPath)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return config, nil
}

// tryPartialParse salvages what it can from a TOML file the typed decode
// rejected, for example one with a string where a number belongs.
func tryPartialParse(configPath string) *Config {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config
	}

	if section, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(section, &config.Search)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "build"); ok {
		extractBuildConfig(section, &config.Build)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config
}

func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.ExtractInt64(data, "max_length_diff"); ok {
		search.MaxLengthDiff = val
	}
	if val, ok := utils.ExtractInt64(data, "max_distance"); ok {
		search.MaxDistance = val
	}
	if val, ok := utils.ExtractInt64(data, "workers"); ok {
		search.Workers = val
	}
	if val, ok := utils.ExtractBool(data, "fold_case"); ok {
		search.FoldCase = val
	}
	if val, ok := utils.ExtractString(data, "runner"); ok {
		search.Runner = val
	}
	if val, ok := utils.ExtractInt64(data, "buffer"); ok {
		search.Buffer = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractString(data, "format"); ok {
		dict.Format = val
	}
}

func extractBuildConfig(data map[string]any, build *BuildConfig) {
	if val, ok := utils.ExtractString(data, "format"); ok {
		build.Format = val
	}
	if val, ok := utils.ExtractInt64(data, "runs"); ok {
		build.Runs = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "runs"); ok {
		cli.Runs = val
	}
	if val, ok := utils.ExtractInt64(data, "verbose"); ok {
		cli.Verbose = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
