// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mailchimp

// Member statuses
const (
	StatusSubscribed   = "subscribed"
	StatusUnsubscribed = "unsubscribed"
	StatusPending      = "pending"
	StatusCleaned      = "cleaned"
)

// ListObject is an audience
type ListObject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListsPage is one page of GET /lists
type ListsPage struct {
	Lists      []ListObject `json:"lists"`
	TotalItems int          `json:"total_items"`
}

// MemberObject is a list member
type MemberObject struct {
	ID           string `json:"id,omitempty"`
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
}

// MembersPage is one page of GET /lists/{id}/members
type MembersPage struct {
	Members    []MemberObject `json:"members"`
	TotalItems int            `json:"total_items"`
}

// BatchMember is one entry of a batch subscribe request
type BatchMember struct {
	EmailAddress string            `json:"email_address"`
	Status       string            `json:"status,omitempty"`
	StatusIfNew  string            `json:"status_if_new,omitempty"`
	MergeFields  map[string]string `json:"merge_fields,omitempty"`
}

// BatchRequest is the body of POST /lists/{id}
type BatchRequest struct {
	Members        []BatchMember `json:"members"`
	UpdateExisting bool          `json:"update_existing"`
}

// BatchError reports a member the batch could not process
type BatchError struct {
	EmailAddress string `json:"email_address"`
	Error        string `json:"error"`
	ErrorCode    string `json:"error_code"`
}

// BatchResponse is the result of POST /lists/{id}
type BatchResponse struct {
	NewMembers     []MemberObject `json:"new_members"`
	UpdatedMembers []MemberObject `json:"updated_members"`
	Errors         []BatchError   `json:"errors"`
	TotalCreated   int            `json:"total_created"`
	TotalUpdated   int            `json:"total_updated"`
	ErrorCount     int            `json:"error_count"`
}

// ProblemObject is the API error document
type ProblemObject struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}
