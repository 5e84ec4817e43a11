// Copyright 2025 DDQ Authors
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

// Package config loads credentials and site selection for the Datadog API.
//
// Configuration sources, in precedence order (highest to lowest):
//  1. Environment variables (DD_API_KEY, DD_APP_KEY, DD_SITE)
//  2. A .env file in the working directory
//  3. YAML configuration file (.ddq.yaml, .ddq.yml, ~/.ddq/config.yaml)
//  4. Built-in defaults
//
// Credentials never come from the YAML file; only site, endpoint, and
// batch-size tuning do.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ddqerrors "github.com/ddqhq/ddq/internal/errors"
)

// Environment variable names, matching the official Datadog tooling.
const (
	envAPIKey = "DD_API_KEY"
	envAppKey = "DD_APP_KEY"
	envSite   = "DD_SITE"
)

// Load builds the invocation configuration. If configPath is non-empty the
// named YAML file must exist and parse; otherwise the standard locations
// are probed and silently skipped when absent. A .env file in the working
// directory is folded into the environment first (without overriding
// variables that are already set), which is where development credentials
// conventionally live.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %v: %w", err, ddqerrors.ErrConfig)
		}
	} else {
		for _, path := range defaultConfigPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %v: %w", path, err, ddqerrors.ErrConfig)
				}
				break
			}
		}
	}

	// Best effort; a missing .env file is the normal case.
	_ = godotenv.Load()

	cfg.APIKey = os.Getenv(envAPIKey)
	cfg.AppKey = os.Getenv(envAppKey)
	if site := os.Getenv(envSite); site != "" {
		cfg.Site = site
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfigPaths() []string {
	return []string{
		".ddq.yaml",
		".ddq.yml",
		filepath.Join(os.Getenv("HOME"), ".ddq", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".ddq", "config.yml"),
	}
}

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
