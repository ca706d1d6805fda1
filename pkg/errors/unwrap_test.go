// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"testing"
)

// customErr is a test error type to demonstrate errors.As functionality
type customErr struct {
	code int
	msg  string
}

func (c customErr) Error() string {
	return c.msg
}

func TestUnwrap(t *testing.T) {
	rootCause := errors.New("root cause error")

	validationErr := NewValidation("validation failed", rootCause)

	unwrapped := validationErr.Unwrap()
	if unwrapped == nil {
		t.Error("Expected unwrapped error to not be nil")
	}

	// errors.Is should work even with errors.Join
	if !errors.Is(validationErr, rootCause) {
		t.Error("errors.Is should find the root cause in the wrapped error")
	}

	simpleErr := NewValidation("simple error")
	if simpleErr.Unwrap() != nil {
		t.Error("Expected Unwrap to return nil for error with no wrapped cause")
	}
}

func TestErrorMessage(t *testing.T) {
	err := NewServiceUnavailable("service temporarily unavailable", errors.New("connection reset"))
	if err.Error() != "service temporarily unavailable: connection reset" {
		t.Errorf("unexpected message %q", err.Error())
	}

	plain := NewNotFound("list not found")
	if plain.Error() != "list not found" {
		t.Errorf("unexpected message %q", plain.Error())
	}
}

func TestErrorsAs(t *testing.T) {
	originalErr := customErr{code: 404, msg: "resource not found"}
	wrappedErr := NewNotFound("lookup failed", originalErr)

	var extracted customErr
	if !errors.As(wrappedErr, &extracted) {
		t.Fatal("Should be able to extract customErr using errors.As")
	}
	if extracted.code != 404 {
		t.Errorf("Expected code 404, got %d", extracted.code)
	}
}

func TestUnwrapWithDifferentErrorTypes(t *testing.T) {
	rootCause := errors.New("connection refused")

	testCases := []struct {
		name string
		err  error
	}{
		{"Validation", NewValidation("validation error", rootCause)},
		{"NotFound", NewNotFound("not found error", rootCause)},
		{"Conflict", NewConflict("conflict error", rootCause)},
		{"Unauthorized", NewUnauthorized("unauthorized error", rootCause)},
		{"Unexpected", NewUnexpected("unexpected error", rootCause)},
		{"ServiceUnavailable", NewServiceUnavailable("service unavailable", rootCause)},
		{"Configuration", NewConfiguration("configuration error", rootCause)},
		{"Fetch", NewFetch("fetch error", rootCause)},
		{"Apply", NewApply("apply error", rootCause)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, rootCause) {
				t.Errorf("errors.Is should find root cause in %s error", tc.name)
			}

			type unwrapper interface {
				Unwrap() error
			}

			u, ok := tc.err.(unwrapper)
			if !ok {
				t.Fatalf("%s error should implement Unwrap()", tc.name)
			}
			if u.Unwrap() == nil {
				t.Errorf("Expected %s error to have an underlying error", tc.name)
			}
		})
	}
}
