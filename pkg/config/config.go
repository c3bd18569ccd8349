/*
Package config manages the TOML config for wordfind runs.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/wordfind/internal/utils"
	"github.com/bastiangx/wordfind/pkg/cooccur"
	"github.com/bastiangx/wordfind/pkg/dictionary"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Discover DiscoverConfig `toml:"discover"`
	Corpus   CorpusConfig   `toml:"corpus"`
	Dict     DictConfig     `toml:"dict"`
	Server   ServerConfig   `toml:"server"`
}

// DiscoverConfig has the statistics and ranking options.
type DiscoverConfig struct {
	PMIThreshold  float64 `toml:"pmi_threshold"`
	MaxCandidates int     `toml:"max_candidates"`
	NgramSize     int     `toml:"ngram_size"`
	Parallelism   int     `toml:"parallelism"`
	SkipKnown     bool    `toml:"skip_known"`
}

// CorpusConfig holds tokenizer options.
type CorpusConfig struct {
	SplitRunes    bool   `toml:"split_runes"`
	Normalize     bool   `toml:"normalize"`
	Lowercase     bool   `toml:"lowercase"`
	SkipNumbers   bool   `toml:"skip_numbers"`
	MinTokenLen   int    `toml:"min_token_len"`
	StopWordsPath string `toml:"stopwords_path"`
}

// DictConfig holds seed dictionary options.
type DictConfig struct {
	SeedPath     string `toml:"seed_path"`
	MinSeedCount int    `toml:"min_seed_count"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxLimit     int `toml:"max_limit"`
	DefaultLimit int `toml:"default_limit"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. platform config dir (~/.config/wordfind, %APPDATA%\wordfind)
// 2. current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := utils.PlatformConfigDir(homeDir)
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
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordfind/config.toml
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

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Discover: DiscoverConfig{
			PMIThreshold:  cooccur.DefaultPMIThreshold,
			MaxCandidates: 20,
			NgramSize:     cooccur.MaxSequence,
			Parallelism:   4,
			SkipKnown:     false,
		},
		Corpus: CorpusConfig{
			SplitRunes:  false,
			Normalize:   true,
			Lowercase:   false,
			SkipNumbers: false,
			MinTokenLen: 1,
		},
		Dict: DictConfig{
			MinSeedCount: dictionary.DefaultMinSeedCount,
		},
		Server: ServerConfig{
			MaxLimit:     200,
			DefaultLimit: 20,
		},
	}
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

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every section field that decodes and defaults the rest
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	raw, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(raw, "discover"); ok {
		extractDiscoverConfig(section, &config.Discover)
	}
	if section, ok := utils.ExtractSection(raw, "corpus"); ok {
		extractCorpusConfig(section, &config.Corpus)
	}
	if section, ok := utils.ExtractSection(raw, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(raw, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	return config, nil
}

func extractDiscoverConfig(data map[string]any, d *DiscoverConfig) {
	if val, ok := utils.ExtractFloat64(data, "pmi_threshold"); ok {
		d.PMIThreshold = val
	}
	if val, ok := utils.ExtractInt64(data, "max_candidates"); ok {
		d.MaxCandidates = val
	}
	if val, ok := utils.ExtractInt64(data, "ngram_size"); ok {
		d.NgramSize = val
	}
	if val, ok := utils.ExtractInt64(data, "parallelism"); ok {
		d.Parallelism = val
	}
	if val, ok := utils.ExtractBool(data, "skip_known"); ok {
		d.SkipKnown = val
	}
}

func extractCorpusConfig(data map[string]any, c *CorpusConfig) {
	if val, ok := utils.ExtractBool(data, "split_runes"); ok {
		c.SplitRunes = val
	}
	if val, ok := utils.ExtractBool(data, "normalize"); ok {
		c.Normalize = val
	}
	if val, ok := utils.ExtractBool(data, "lowercase"); ok {
		c.Lowercase = val
	}
	if val, ok := utils.ExtractBool(data, "skip_numbers"); ok {
		c.SkipNumbers = val
	}
	if val, ok := utils.ExtractInt64(data, "min_token_len"); ok {
		c.MinTokenLen = val
	}
	if val, ok := utils.ExtractString(data, "stopwords_path"); ok {
		c.StopWordsPath = val
	}
}

func extractDictConfig(data map[string]any, d *DictConfig) {
	if val, ok := utils.ExtractString(data, "seed_path"); ok {
		d.SeedPath = val
	}
	if val, ok := utils.ExtractInt64(data, "min_seed_count"); ok {
		d.MinSeedCount = val
	}
}

func extractServerConfig(data map[string]any, s *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		s.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		s.DefaultLimit = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the discovery values and saves to file when configPath is set
func (c *Config) Update(configPath string, pmiThreshold *float64, maxCandidates *int) error {
	if pmiThreshold != nil {
		c.Discover.PMIThreshold = *pmiThreshold
	}
	if maxCandidates != nil {
		c.Discover.MaxCandidates = *maxCandidates
	}
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
