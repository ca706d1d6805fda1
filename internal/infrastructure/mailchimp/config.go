// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mailchimp

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the configuration for the Mailchimp subscriber list
type Config struct {
	// APIKey is the Marketing API key, "<secret>-<dc>"
	APIKey string

	// BaseURL overrides the URL derived from the API key data center
	BaseURL string

	// PageSize is the count of each lists/members page
	PageSize int

	// BatchSize is the number of members per batch subscribe call (API maximum 500)
	BatchSize int

	// Concurrency bounds the parallel per-member calls of a removal
	Concurrency int

	// Timeout is the HTTP client timeout for requests
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the delay between retry attempts
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		PageSize:    1000,
		BatchSize:   500,
		Concurrency: 10,
		Timeout:     30 * time.Second,
		MaxRetries:  3,
		RetryDelay:  1 * time.Second,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() Config {
	config := DefaultConfig()

	config.APIKey = os.Getenv("MAILCHIMP_API_KEY")

	if baseURL := os.Getenv("MAILCHIMP_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}

	if pageSizeStr := os.Getenv("MAILCHIMP_PAGE_SIZE"); pageSizeStr != "" {
		if pageSize, err := strconv.Atoi(pageSizeStr); err == nil && pageSize > 0 {
			config.PageSize = pageSize
		}
	}

	if concurrencyStr := os.Getenv("MAILCHIMP_CONCURRENCY"); concurrencyStr != "" {
		if concurrency, err := strconv.Atoi(concurrencyStr); err == nil && concurrency > 0 {
			config.Concurrency = concurrency
		}
	}

	if timeoutStr := os.Getenv("MAILCHIMP_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			config.Timeout = timeout
		}
	}

	if retriesStr := os.Getenv("MAILCHIMP_MAX_RETRIES"); retriesStr != "" {
		if retries, err := strconv.Atoi(retriesStr); err == nil {
			config.MaxRetries = retries
		}
	}

	return config
}

// apiURL returns the API root, derived from the key data center unless BaseURL is set
func (c Config) apiURL() (string, error) {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/"), nil
	}

	idx := strings.LastIndex(c.APIKey, "-")
	if idx < 0 || idx == len(c.APIKey)-1 {
		return "", fmt.Errorf("mailchimp API key has no data center suffix")
	}

	return fmt.Sprintf("https://%s.api.mailchimp.com/3.0", c.APIKey[idx+1:]), nil
}
