// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

import (
	"fmt"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
)

// Source directory implementations: where the authoritative membership comes from
const (
	// SourceDirectoryGoogle reads a Google Workspace group through the Admin SDK Directory API
	SourceDirectoryGoogle = "google"

	// SourceDirectoryNATS reads an LFX committee through NATS request/reply
	SourceDirectoryNATS = "nats"

	// SourceDirectoryMock reads an in-memory directory (testing mode)
	SourceDirectoryMock = "mock"
)

// Subscriber list implementations: where the membership is mirrored to
const (
	// SubscriberListMailchimp writes to a Mailchimp audience
	SubscriberListMailchimp = "mailchimp"

	// SubscriberListGroupsIO writes to a Groups.io group
	SubscriberListGroupsIO = "groupsio"

	// SubscriberListMock writes to an in-memory list (testing mode)
	SubscriberListMock = "mock"
)

// ValidateSourceDirectory validates that the source directory is one of the allowed values
func ValidateSourceDirectory(source string) error {
	switch source {
	case SourceDirectoryGoogle, SourceDirectoryNATS, SourceDirectoryMock:
		return nil
	case "":
		return errors.NewValidation("source directory is required")
	default:
		return errors.NewValidation(
			fmt.Sprintf("unsupported source directory: %s (must be google, nats, or mock)", source))
	}
}

// ValidateSubscriberList validates that the subscriber list is one of the allowed values
func ValidateSubscriberList(list string) error {
	switch list {
	case SubscriberListMailchimp, SubscriberListGroupsIO, SubscriberListMock:
		return nil
	case "":
		return errors.NewValidation("subscriber list is required")
	default:
		return errors.NewValidation(
			fmt.Sprintf("unsupported subscriber list: %s (must be mailchimp, groupsio, or mock)", list))
	}
}
