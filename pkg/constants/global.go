// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package constants defines global constants used throughout the mailing list sync service.
package constants

import "time"

// Service constants
const (
	// ServiceName is the name of this service
	ServiceName = "lfx-v2-mailing-list-sync"

	// DefaultSyncInterval is the wait between the end of one cycle and the start of the next
	DefaultSyncInterval = 60 * time.Minute
)

// Environment variables
const (
	// EnvSourceGroup is the identifier of the authoritative group (e.g. a Google group address)
	EnvSourceGroup = "SOURCE_GROUP"
	// EnvTargetListName is the display name of the subscriber list to keep in sync
	EnvTargetListName = "TARGET_LIST_NAME"
	// EnvSyncInterval overrides DefaultSyncInterval (Go duration syntax)
	EnvSyncInterval = "SYNC_INTERVAL"
	// EnvSourceDirectory selects the source directory implementation
	EnvSourceDirectory = "SOURCE_DIRECTORY"
	// EnvSubscriberList selects the subscriber list implementation
	EnvSubscriberList = "SUBSCRIBER_LIST"

	// EnvGoogleGroupAddress is the legacy name of EnvSourceGroup
	EnvGoogleGroupAddress = "GOOGLE_GROUP_ADDRESS"
	// EnvMailchimpListName is the legacy name of EnvTargetListName
	EnvMailchimpListName = "MAILCHIMP_LIST_NAME"

	// EnvNATSURL is the environment variable for NATS server URL
	EnvNATSURL = "NATS_URL"
	// EnvNATSCredentials is the environment variable for NATS credentials
	EnvNATSCredentials = "NATS_CREDENTIALS"
)
