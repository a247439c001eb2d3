// Copyright 2025 Relctx Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for relctx with support
// for multiple configuration sources and a well-defined precedence order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// The package supports YAML configuration files and provides automatic
// discovery of configuration in standard locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .relctx.yaml (current directory)
//   - .relctx.yml (current directory)
//   - ~/.relctx/config.yaml
//   - ~/.relctx/config.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides. Returns an error if the specified config file cannot be
// loaded, but succeeds with defaults when no file is found in standard
// locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".relctx.yaml",
			".relctx.yml",
			filepath.Join(os.Getenv("HOME"), ".relctx", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".relctx", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	cfg.Defaults.OutDir = expandPath(cfg.Defaults.OutDir)

	return cfg, nil
}

// Token resolves the GitHub credential. Precedence: the flag value, then the
// environment variable named by github.token_env, then the token stored in
// the config file. Empty when none is set.
func (c *Config) Token(flagToken string) string {
	if flagToken != "" {
		return flagToken
	}
	envName := c.GitHub.TokenEnv
	if envName == "" {
		envName = "GITHUB_TOKEN"
	}
	if tok := os.Getenv(envName); tok != "" {
		return tok
	}
	return c.GitHub.Token
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}

	if concurrency := os.Getenv("RELCTX_CONCURRENCY"); concurrency != "" {
		if n, err := strconv.Atoi(concurrency); err == nil && n > 0 {
			cfg.Defaults.Concurrency = n
		}
	}

	if autoWait := os.Getenv("RELCTX_RATE_LIMIT_AUTO_WAIT"); autoWait != "" {
		cfg.RateLimit.AutoWait = parseBool(autoWait)
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// Validate checks if the configuration contains valid values. This should be
// called after loading configuration to catch invalid settings early.
func (c *Config) Validate() error {
	if c.GitHub.APIEndpoint == "" {
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("GitHub GraphQL endpoint cannot be empty")
	}
	if c.Defaults.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got: %d", c.Defaults.Concurrency)
	}
	if c.Defaults.Concurrency > 32 {
		return fmt.Errorf("concurrency %d is too aggressive for the GitHub API (max 32)", c.Defaults.Concurrency)
	}
	if c.Report.SummaryMaxChars <= 0 {
		return fmt.Errorf("summary_max_chars must be positive, got: %d", c.Report.SummaryMaxChars)
	}
	if c.Report.MaxPRFiles <= 0 {
		return fmt.Errorf("max_pr_files must be positive, got: %d", c.Report.MaxPRFiles)
	}
	if c.RateLimit.MaxWait < 0 {
		return fmt.Errorf("rate limit max_wait cannot be negative, got: %s", c.RateLimit.MaxWait)
	}
	return nil
}
