// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package errors provides custom error types for the mailing list sync service.
package errors

import (
	"errors"
	"fmt"
)

// base is a struct that holds the common fields for error types
type base struct {
	message string
	err     error
}

// newBase joins the wrapped errors so every cause stays reachable through Unwrap
func newBase(message string, err ...error) base {
	return base{
		message: message,
		err:     errors.Join(err...),
	}
}

// error is a method that returns the error message for the base struct
// any changes to the error message here will be reflected in all error types that embed base
func (b base) error() string {
	if b.err == nil {
		return b.message
	}
	return fmt.Sprintf("%s: %v", b.message, b.err)
}

// Unwrap exposes the underlying error to support errors.Is / errors.As.
func (b base) Unwrap() error {
	return b.err
}
