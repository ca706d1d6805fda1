// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package google

// Member types reported by the Directory API
const (
	MemberTypeUser     = "USER"
	MemberTypeGroup    = "GROUP"
	MemberTypeCustomer = "CUSTOMER"
)

// MemberObject represents a member of a Google Workspace group
type MemberObject struct {
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`   // OWNER, MANAGER, MEMBER
	Type   string `json:"type"`   // USER, GROUP, CUSTOMER, EXTERNAL
	Status string `json:"status"` // ACTIVE, SUSPENDED, UNKNOWN
}

// MembersPage is one page of the members.list response
type MembersPage struct {
	Kind          string         `json:"kind"`
	Members       []MemberObject `json:"members"`
	NextPageToken string         `json:"nextPageToken"`
}

// ErrorResponse is the Google API error envelope
type ErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
