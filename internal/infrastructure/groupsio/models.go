// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package groupsio

import "encoding/json"

// ListObject is the paginated envelope returned by Groups.io list endpoints
type ListObject struct {
	Object        string          `json:"object"`
	TotalCount    int             `json:"total_count"`
	StartItem     int             `json:"start_item"`
	EndItem       int             `json:"end_item"`
	HasMore       bool            `json:"has_more"`
	NextPageToken uint64          `json:"next_page_token"`
	Data          json.RawMessage `json:"data"`
}

// SubscriptionObject is one group the account is subscribed to (getsubs)
type SubscriptionObject struct {
	ID        uint64 `json:"id"`
	GroupID   uint64 `json:"group_id"`
	GroupName string `json:"group_name"`
	Status    string `json:"status"`
}

// MemberObject represents a Groups.io member
type MemberObject struct {
	ID        uint64 `json:"id"`
	GroupID   uint64 `json:"group_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	Status    string `json:"status"`     // normal, pending, bouncing, etc.
	ModStatus string `json:"mod_status"` // none, moderator, owner
}

// DirectAddResultsObject is the outcome of a directadd call
type DirectAddResultsObject struct {
	Object       string           `json:"object"`
	TotalEmails  int              `json:"total_emails"`
	AddedMembers []MemberObject   `json:"added_members"`
	Errors       []DirectAddError `json:"errors"`
}

// DirectAddError reports an address that was not added
type DirectAddError struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

// LoginObject represents the Groups.io login response
type LoginObject struct {
	Token  string `json:"token"`
	UserID uint64 `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
}

// ErrorObject represents a Groups.io API error response
type ErrorObject struct {
	Object string `json:"object"`
	Type   string `json:"type"`
	Extra  string `json:"extra,omitempty"`
}

// PageOptions are the pagination parameters of list endpoints
type PageOptions struct {
	Limit     int    `url:"limit,omitempty"`
	PageToken uint64 `url:"page_token,omitempty"`
}

// GetMembersOptions are the parameters of getmembers
type GetMembersOptions struct {
	GroupID uint64 `url:"group_id"`
	PageOptions
}

// DirectAddOptions are the parameters of directadd
type DirectAddOptions struct {
	GroupID uint64 `url:"group_id"`
	// Emails is newline separated, each line "Full Name <email>" or a bare address
	Emails string `url:"emails"`
	// SubGroupIDs optionally lists subgroups to add the members to
	SubGroupIDs string `url:"subgroupids,omitempty"`
}

// BulkRemoveOptions are the parameters of bulkremovemembers
type BulkRemoveOptions struct {
	GroupID uint64 `url:"group_id"`
	// Emails is newline separated
	Emails string `url:"emails"`
}
