// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

// The reconciliation taxonomy. None of these are recovered locally: they
// surface to the top-level caller, which terminates the process.

// Configuration is returned when the sync cannot run with the supplied
// configuration, e.g. the target list does not exist on the subscriber list service.
type Configuration struct {
	base
}

// Error returns the error message for Configuration.
func (c Configuration) Error() string {
	return c.error()
}

// NewConfiguration creates a new Configuration error with the provided message.
func NewConfiguration(message string, err ...error) Configuration {
	return Configuration{base: newBase(message, err...)}
}

// Fetch is returned when reading the source or target membership failed.
// No plan is ever computed after a Fetch error.
type Fetch struct {
	base
}

// Error returns the error message for Fetch.
func (f Fetch) Error() string {
	return f.error()
}

// NewFetch creates a new Fetch error with the provided message.
func NewFetch(message string, err ...error) Fetch {
	return Fetch{base: newBase(message, err...)}
}

// Apply is returned when the removal or upsert batch failed. Writes already
// made during the cycle are not rolled back.
type Apply struct {
	base
}

// Error returns the error message for Apply.
func (a Apply) Error() string {
	return a.error()
}

// NewApply creates a new Apply error with the provided message.
func NewApply(message string, err ...error) Apply {
	return Apply{base: newBase(message, err...)}
}
