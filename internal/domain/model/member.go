// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package model contains the domain entities of a reconciliation cycle.
// They are built fresh for every cycle and never persisted.
package model

import (
	"slices"
	"strings"
)

// MemberEmail identifies a member. Two addresses that differ only by case
// are the same member; use NormalizeEmail before comparing.
type MemberEmail string

// NormalizeEmail returns the canonical (trimmed, lower case) form of an address
func NormalizeEmail(email string) MemberEmail {
	return MemberEmail(strings.ToLower(strings.TrimSpace(email)))
}

// String implements fmt.Stringer
func (e MemberEmail) String() string {
	return string(e)
}

// SourceMember is a member of the authoritative group.
// FirstName and LastName are optional and usually empty, but the record shape
// is always sent to the subscriber list.
type SourceMember struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Key returns the normalized email of the member
func (m SourceMember) Key() MemberEmail {
	return NormalizeEmail(m.Email)
}

// FullName joins the optional name fields, empty when both are absent
func (m SourceMember) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// EmailSet is a set of normalized member emails
type EmailSet map[MemberEmail]struct{}

// NewEmailSet builds a set from raw addresses, normalizing each of them
func NewEmailSet(emails ...string) EmailSet {
	set := make(EmailSet, len(emails))
	for _, email := range emails {
		set.Add(email)
	}
	return set
}

// Add normalizes and inserts an address. Blank addresses are ignored.
func (s EmailSet) Add(email string) {
	key := NormalizeEmail(email)
	if key == "" {
		return
	}
	s[key] = struct{}{}
}

// Has reports whether the normalized address is in the set
func (s EmailSet) Has(email string) bool {
	_, ok := s[NormalizeEmail(email)]
	return ok
}

// Sorted returns the members in lexical order
func (s EmailSet) Sorted() []MemberEmail {
	out := make([]MemberEmail, 0, len(s))
	for email := range s {
		out = append(out, email)
	}
	slices.Sort(out)
	return out
}

// UpsertResult is what the subscriber list reports after an upsert batch
type UpsertResult struct {
	Added   int
	Updated int
	Errored int
}

// RemoveOptions control the side effects of a removal batch
type RemoveOptions struct {
	// DeleteMember removes the member record instead of only unsubscribing it
	DeleteMember bool
	// Notify sends goodbye and admin notifications
	Notify bool
}

// UpsertOptions control the side effects of an upsert batch
type UpsertOptions struct {
	// DoubleOptIn sends a confirmation email before subscribing new members
	DoubleOptIn bool
	// UpdateExisting updates members that are already on the list instead of failing them
	UpdateExisting bool
}

// SilentRemove is the removal policy of the sync: delete, never notify
func SilentRemove() RemoveOptions {
	return RemoveOptions{DeleteMember: true, Notify: false}
}

// SilentUpsert is the upsert policy of the sync: no opt-in email, update existing members
func SilentUpsert() UpsertOptions {
	return UpsertOptions{DoubleOptIn: false, UpdateExisting: true}
}
