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

package config

import (
	"fmt"
	"strings"

	ddqerrors "github.com/ddqhq/ddq/internal/errors"
)

// Config is the complete, immutable configuration for one invocation.
// It is built once at startup and passed explicitly to the API client;
// nothing reads the process environment after Load returns, so the core
// can be tested with a fabricated Config and no real credentials.
type Config struct {
	// APIKey and AppKey authenticate every request. Both are required.
	APIKey string `yaml:"-"`
	AppKey string `yaml:"-"`

	// Site selects the Datadog region, e.g. "datadoghq.com" or
	// "datadoghq.eu". The API host is derived as api.<site> unless
	// Endpoint overrides it.
	Site string `yaml:"site"`

	// Endpoint overrides the derived API base URL, mainly for tests and
	// proxied deployments.
	Endpoint string `yaml:"endpoint"`

	// BatchSizes tunes the per-request page size for the paginated
	// domains. Values are clamped to the API maximum of 1000.
	BatchSizes BatchSizes `yaml:"batch_sizes"`

	// UserAgent is sent with every request.
	UserAgent string `yaml:"-"`
}

// BatchSizes holds per-domain page-size overrides. Zero means the domain
// default.
type BatchSizes struct {
	Logs  int `yaml:"logs"`
	Spans int `yaml:"spans"`
}

// DefaultConfig returns the built-in defaults, suitable for the public
// datadoghq.com site.
func DefaultConfig() *Config {
	return &Config{
		Site: "datadoghq.com",
	}
}

// BaseURL returns the API base URL for this configuration.
func (c *Config) BaseURL() string {
	if c.Endpoint != "" {
		return strings.TrimSuffix(c.Endpoint, "/")
	}
	return "https://api." + c.Site
}

// AppBaseURL returns the browser UI base URL for this site, used only for
// verbose diagnostics.
func (c *Config) AppBaseURL() string {
	return "https://app." + c.Site
}

// Validate checks that the configuration can authenticate a request.
// It is called once by Load; failures map to exit code 5.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DD_API_KEY environment variable not set: %w", ddqerrors.ErrConfig)
	}
	if c.AppKey == "" {
		return fmt.Errorf("DD_APP_KEY environment variable not set: %w", ddqerrors.ErrConfig)
	}
	if c.Site == "" {
		return fmt.Errorf("datadog site cannot be empty: %w", ddqerrors.ErrConfig)
	}
	if c.BatchSizes.Logs < 0 || c.BatchSizes.Spans < 0 {
		return fmt.Errorf("batch sizes must be non-negative: %w", ddqerrors.ErrConfig)
	}
	return nil
}
