// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// NATS request/reply subjects served by other LFX services
const (
	// CommitteeListMembersSubject returns the members of a committee as a JSON array.
	// The request payload is the committee UID.
	CommitteeListMembersSubject = "lfx.committee-api.list_members"
)
