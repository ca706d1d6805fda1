// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package httpclient

import "time"

// Config holds the transport settings shared by the remote API clients
type Config struct {
	// Timeout is the per-attempt HTTP timeout
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after the first one
	MaxRetries int

	// RetryDelay is the delay before the first retry
	RetryDelay time.Duration

	// RetryBackoff doubles the delay on each retry (with jitter)
	RetryBackoff bool

	// MaxDelay caps the backoff delay
	MaxDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		MaxRetries:   2,
		RetryDelay:   1 * time.Second,
		RetryBackoff: true,
		MaxDelay:     30 * time.Second,
	}
}
