// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/constants"
)

// Config holds the NATS connection settings
type Config struct {
	// URL is the NATS server URL
	URL string

	// CredentialsFile is an optional NATS credentials (.creds) file
	CredentialsFile string

	// Timeout applies to the connection and to each request
	Timeout time.Duration

	// MaxReconnect is the maximum number of reconnection attempts
	MaxReconnect int

	// ReconnectWait is the delay between reconnection attempts
	ReconnectWait time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		URL:           "nats://localhost:4222",
		Timeout:       10 * time.Second,
		MaxReconnect:  3,
		ReconnectWait: 2 * time.Second,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() (Config, error) {
	config := DefaultConfig()

	if url := os.Getenv(constants.EnvNATSURL); url != "" {
		config.URL = url
	}

	config.CredentialsFile = os.Getenv(constants.EnvNATSCredentials)

	if timeout := os.Getenv("NATS_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid NATS timeout duration %s: %w", timeout, err)
		}
		config.Timeout = d
	}

	if maxReconnect := os.Getenv("NATS_MAX_RECONNECT"); maxReconnect != "" {
		n, err := strconv.Atoi(maxReconnect)
		if err != nil {
			return Config{}, fmt.Errorf("invalid NATS max reconnect value %s: %w", maxReconnect, err)
		}
		config.MaxReconnect = n
	}

	if reconnectWait := os.Getenv("NATS_RECONNECT_WAIT"); reconnectWait != "" {
		d, err := time.ParseDuration(reconnectWait)
		if err != nil {
			return Config{}, fmt.Errorf("invalid NATS reconnect wait duration %s: %w", reconnectWait, err)
		}
		config.ReconnectWait = d
	}

	return config, nil
}
