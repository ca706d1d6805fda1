// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package groupsio

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
)

// Config holds the account and transport settings of the Groups.io sink
type Config struct {
	// BaseURL is the API root, without the /v1 prefix
	BaseURL string
	// Domain is the vhost the groups live on. It is sent as the Host header.
	Domain string

	// Email and Password log in the account that administers the groups
	Email    string
	Password string

	// PageSize is the limit sent to paginated endpoints
	PageSize int

	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns the public Groups.io endpoint with hourly-job friendly timeouts
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://api.groups.io",
		Domain:     "groups.io",
		PageSize:   100,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}

// NewConfigFromEnv reads GROUPSIO_* variables on top of DefaultConfig.
// A variable that does not parse is an errors.Configuration.
func NewConfigFromEnv() (Config, error) {
	config := DefaultConfig()

	for name, target := range map[string]*string{
		"GROUPSIO_BASE_URL": &config.BaseURL,
		"GROUPSIO_DOMAIN":   &config.Domain,
		"GROUPSIO_EMAIL":    &config.Email,
		"GROUPSIO_PASSWORD": &config.Password,
	} {
		if value := os.Getenv(name); value != "" {
			*target = value
		}
	}

	for name, target := range map[string]*int{
		"GROUPSIO_PAGE_SIZE":   &config.PageSize,
		"GROUPSIO_MAX_RETRIES": &config.MaxRetries,
	} {
		raw := os.Getenv(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Config{}, errors.NewConfiguration(fmt.Sprintf("invalid %s value %q", name, raw), err)
		}
		*target = n
	}

	for name, target := range map[string]*time.Duration{
		"GROUPSIO_TIMEOUT":     &config.Timeout,
		"GROUPSIO_RETRY_DELAY": &config.RetryDelay,
	} {
		raw := os.Getenv(name)
		if raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, errors.NewConfiguration(fmt.Sprintf("invalid %s value %q", name, raw), err)
		}
		*target = d
	}

	return config, nil
}
