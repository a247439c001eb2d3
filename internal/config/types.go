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

// Package config types define the configuration structures used throughout
// relctx. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

import "time"

// Config represents the complete configuration for relctx. It consolidates
// settings from various sources and provides a unified interface for
// accessing configuration values throughout the application.
type Config struct {
	GitHub    GitHubConfig    `yaml:"github"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
	Report    ReportConfig    `yaml:"report"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// GitHubConfig contains GitHub-specific settings including API endpoints and
// authentication. Custom endpoints support GitHub Enterprise deployments.
// Token may be placed directly in a local config file; the environment
// variable named by TokenEnv takes precedence over it.
type GitHubConfig struct {
	APIEndpoint     string `yaml:"api_endpoint"`
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
	Token           string `yaml:"token"`
}

// DefaultsConfig contains default settings that apply to every run unless
// overridden by command-line flags.
type DefaultsConfig struct {
	OutDir      string `yaml:"out_dir"`
	Concurrency int    `yaml:"concurrency"`
}

// ReportConfig tunes how much detail the rendered report carries.
type ReportConfig struct {
	SummaryMaxChars   int `yaml:"summary_max_chars"`
	FilesShown        int `yaml:"files_shown"`
	RiskMaxItems      int `yaml:"risk_max_items"`
	CommitFallbackMax int `yaml:"commit_fallback_max"`
	MaxPRFiles        int `yaml:"max_pr_files"`
}

// RateLimitConfig controls rate limit handling when talking to the GitHub
// API: whether to automatically wait for the reset and the cap on a single
// wait.
type RateLimitConfig struct {
	AutoWait bool          `yaml:"auto_wait"`
	MaxWait  time.Duration `yaml:"max_wait"`
}

// DefaultConfig returns a Config with sensible defaults suitable for most
// use cases. These defaults are optimized for public GitHub.com usage but
// can be overridden for GitHub Enterprise or special requirements.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint:     "https://api.github.com",
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			OutDir:      "./out",
			Concurrency: 8,
		},
		Report: ReportConfig{
			SummaryMaxChars:   700,
			FilesShown:        25,
			RiskMaxItems:      60,
			CommitFallbackMax: 200,
			MaxPRFiles:        200,
		},
		RateLimit: RateLimitConfig{
			AutoWait: true,
			MaxWait:  15 * time.Minute,
		},
	}
}
