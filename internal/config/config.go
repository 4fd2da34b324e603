// Package config loads application configuration from file, environment
// variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".git-analyzer"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for git-analyzer settings.
const envPrefix = "GIT_ANALYZER"

// Defaults for the bounded page sizes of the paginated resources.
const (
	DefaultContributorsPerPage = 30
	DefaultCommitsPerPage      = 100
)

// Config holds all runtime settings.
type Config struct {
	// Token is the optional bearer credential. Blank means anonymous access.
	Token string `mapstructure:"token"`

	// BaseURL overrides the API endpoint. Blank means the public API.
	BaseURL string `mapstructure:"base_url"`

	ContributorsPerPage int `mapstructure:"contributors_per_page"`
	CommitsPerPage      int `mapstructure:"commits_per_page"`
}

// Load reads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	viperCfg.SetDefault("contributors_per_page", DefaultContributorsPerPage)
	viperCfg.SetDefault("commits_per_page", DefaultCommitsPerPage)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	// AutomaticEnv does not surface env-only keys through Unmarshal; each
	// key needs an explicit binding to be picked up without a default or a
	// config-file entry.
	for _, key := range []string{"token", "base_url", "contributors_per_page", "commits_per_page"} {
		if err := viperCfg.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	if readErr := viperCfg.ReadInConfig(); readErr != nil {
		if configPath != "" {
			// An explicitly requested file must exist and parse.
			return nil, fmt.Errorf("read config %s: %w", configPath, readErr)
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			// A file found in the search path but unreadable/invalid.
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config
	if err := viperCfg.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// GITHUB_TOKEN is the conventional fallback for the credential.
	if cfg.Token == "" {
		cfg.Token = os.Getenv("GITHUB_TOKEN")
	}

	if cfg.ContributorsPerPage <= 0 {
		cfg.ContributorsPerPage = DefaultContributorsPerPage
	}
	if cfg.CommitsPerPage <= 0 {
		cfg.CommitsPerPage = DefaultCommitsPerPage
	}

	return &cfg, nil
}
