// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package redaction masks personal data before it reaches the logs.
package redaction

import "strings"

// RedactEmail keeps the first character of the local part and the domain:
// "jane.doe@example.com" becomes "j***@example.com".
func RedactEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		if email == "" {
			return ""
		}
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// RedactEmails applies RedactEmail to every address.
func RedactEmails(emails []string) []string {
	redacted := make([]string, len(emails))
	for i, email := range emails {
		redacted[i] = RedactEmail(email)
	}
	return redacted
}
