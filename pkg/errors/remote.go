// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

// The types below classify what a remote API answered. Adapters produce them
// from HTTP status codes or reply payloads; the sync classes in sync.go wrap them.

// Validation means the remote API rejected the content of a request (400, 422).
type Validation struct {
	base
}

// Error returns the error message for Validation.
func (v Validation) Error() string {
	return v.error()
}

// NewValidation creates a new Validation error with the provided message.
func NewValidation(message string, err ...error) Validation {
	return Validation{base: newBase(message, err...)}
}

// NotFound means the addressed group, list or member does not exist (404).
type NotFound struct {
	base
}

func (n NotFound) Error() string {
	return n.error()
}

// NewNotFound creates a new NotFound error with the provided message.
func NewNotFound(message string, err ...error) NotFound {
	return NotFound{base: newBase(message, err...)}
}

// Conflict means the target is in a state that forbids the call (409), or a
// local component was used twice.
type Conflict struct {
	base
}

func (c Conflict) Error() string {
	return c.error()
}

// NewConflict creates a new Conflict error with the provided message.
func NewConflict(message string, err ...error) Conflict {
	return Conflict{base: newBase(message, err...)}
}

// Unauthorized means the credentials were refused or could not be obtained (401, 403).
type Unauthorized struct {
	base
}

func (u Unauthorized) Error() string {
	return u.error()
}

// NewUnauthorized creates a new Unauthorized error with the provided message.
func NewUnauthorized(message string, err ...error) Unauthorized {
	return Unauthorized{base: newBase(message, err...)}
}

// ServiceUnavailable means the remote could not serve the request: 5xx, rate
// limiting, or no connection at all.
type ServiceUnavailable struct {
	base
}

func (su ServiceUnavailable) Error() string {
	return su.error()
}

// NewServiceUnavailable creates a new ServiceUnavailable error with the provided message.
func NewServiceUnavailable(message string, err ...error) ServiceUnavailable {
	return ServiceUnavailable{base: newBase(message, err...)}
}

// Unexpected covers answers that fit no other class, such as an unparsable body.
type Unexpected struct {
	base
}

func (u Unexpected) Error() string {
	return u.error()
}

// NewUnexpected creates a new Unexpected error with the provided message.
func NewUnexpected(message string, err ...error) Unexpected {
	return Unexpected{base: newBase(message, err...)}
}
