// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package google

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DirectoryMemberReadonlyScope is the only scope the directory reader asks for
const DirectoryMemberReadonlyScope = "https://www.googleapis.com/auth/admin.directory.group.member.readonly"

// Config holds the configuration for the Google Workspace directory
type Config struct {
	// BaseURL is the Admin SDK Directory API base URL
	BaseURL string

	// TokenURL is the OAuth2 token endpoint used for the JWT grant
	TokenURL string

	// ClientEmail is the service account address
	ClientEmail string

	// PrivateKey is the PEM encoded service account key
	PrivateKey string

	// AdminEmail is the Workspace administrator impersonated through domain-wide delegation
	AdminEmail string

	// PageSize is the maxResults of each members page (the API caps it at 200)
	PageSize int

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
		BaseURL:    "https://admin.googleapis.com",
		TokenURL:   "https://oauth2.googleapis.com/token",
		PageSize:   200,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() Config {
	config := DefaultConfig()

	if baseURL := os.Getenv("GOOGLE_DIRECTORY_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}

	if tokenURL := os.Getenv("GOOGLE_TOKEN_URL"); tokenURL != "" {
		config.TokenURL = tokenURL
	}

	config.ClientEmail = os.Getenv("GOOGLE_JWT_CLIENT_ADDRESS")
	config.PrivateKey = unescapeNewlines(os.Getenv("GOOGLE_JWT_PRIVATE_KEY"))
	config.AdminEmail = os.Getenv("GOOGLE_ADMIN_ADDRESS")

	if pageSizeStr := os.Getenv("GOOGLE_PAGE_SIZE"); pageSizeStr != "" {
		if pageSize, err := strconv.Atoi(pageSizeStr); err == nil && pageSize > 0 {
			config.PageSize = pageSize
		}
	}

	if timeoutStr := os.Getenv("GOOGLE_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			config.Timeout = timeout
		}
	}

	if retriesStr := os.Getenv("GOOGLE_MAX_RETRIES"); retriesStr != "" {
		if retries, err := strconv.Atoi(retriesStr); err == nil {
			config.MaxRetries = retries
		}
	}

	return config
}

// unescapeNewlines turns the literal \n sequences of a key stored on a
// single line back into line breaks
func unescapeNewlines(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}
