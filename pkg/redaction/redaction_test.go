// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package redaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"regular address", "jane.doe@example.com", "j***@example.com"},
		{"single character local part", "a@x.com", "a***@x.com"},
		{"surrounding spaces", "  bob@x.org ", "b***@x.org"},
		{"no at sign", "not-an-email", "***"},
		{"leading at sign", "@x.com", "***"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RedactEmail(tt.input))
		})
	}
}

func TestRedactEmails(t *testing.T) {
	assert.Equal(t,
		[]string{"a***@x.com", "b***@y.org"},
		RedactEmails([]string{"a@x.com", "bob@y.org"}))
	assert.Empty(t, RedactEmails(nil))
}
