// Package config handles configuration loading for the forex assistant.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm"      yaml:"llm"`
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider"`
	Store    StoreConfig    `mapstructure:"store"    yaml:"store"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	News     NewsConfig     `mapstructure:"news"     yaml:"news"`
}

// LLMConfig holds the entity-extraction LLM settings. An empty key disables
// the LLM tier; extraction then runs rules-only.
type LLMConfig struct {
	OpenAIKey string `mapstructure:"openai_key" yaml:"openai_key"`
	Model     string `mapstructure:"model"      yaml:"model"`
}

// ProviderConfig holds the remote quote provider settings.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"  yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// StoreConfig holds the quote history store settings.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// NewsConfig holds the forex news feed settings.
type NewsConfig struct {
	Sources []NewsSource `mapstructure:"sources" yaml:"sources"`
}

// NewsSource is one configured RSS feed.
type NewsSource struct {
	Name string `mapstructure:"name" yaml:"name"`
	URL  string `mapstructure:"url"  yaml:"url"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.forexbot/config.yaml (home directory)
//  3. /etc/forexbot/config.yaml (system)
//
// Environment variables override config file values.
// Format: FOREXBOT_<SECTION>_<KEY>, e.g., FOREXBOT_PROVIDER_API_KEY
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".forexbot"))
	v.AddConfigPath("/etc/forexbot")

	v.SetEnvPrefix("FOREXBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("FOREXBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// LLM defaults
	v.SetDefault("llm.model", "gpt-4o-mini")

	// Provider defaults
	v.SetDefault("provider.base_url", "https://www.alphavantage.co/query")

	// Store defaults
	v.SetDefault("store.path", filepath.Join(homeDir(), ".forexbot", "history.db"))

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("FOREXBOT_LLM_OPENAI_KEY"); key != "" {
		cfg.LLM.OpenAIKey = key
	}
	if key := os.Getenv("FOREXBOT_PROVIDER_API_KEY"); key != "" {
		cfg.Provider.APIKey = key
	}
}

// Addr returns the host:port the API server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
