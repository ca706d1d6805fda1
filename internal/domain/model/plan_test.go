// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func members(emails ...string) []SourceMember {
	out := make([]SourceMember, len(emails))
	for i, email := range emails {
		out[i] = SourceMember{Email: email}
	}
	return out
}

func subscribers(emails ...string) []MemberEmail {
	out := make([]MemberEmail, len(emails))
	for i, email := range emails {
		out[i] = MemberEmail(email)
	}
	return out
}

func TestNewReconciliationPlan(t *testing.T) {
	tests := []struct {
		name           string
		source         []SourceMember
		target         []MemberEmail
		expectedRemove []MemberEmail
		expectedUpsert []MemberEmail
	}{
		{
			name:           "overlapping sets",
			source:         members("a@x.com", "b@x.com"),
			target:         subscribers("b@x.com", "c@x.com"),
			expectedRemove: []MemberEmail{"c@x.com"},
			expectedUpsert: []MemberEmail{"a@x.com", "b@x.com"},
		},
		{
			name:           "case differences are the same member",
			source:         members("SOURCE@Example.com"),
			target:         subscribers("source@example.com"),
			expectedRemove: []MemberEmail{},
			expectedUpsert: []MemberEmail{"source@example.com"},
		},
		{
			name:           "duplicate source members are collapsed",
			source:         members("a@x.com", "A@X.COM", "b@x.com", "a@x.com"),
			target:         nil,
			expectedRemove: []MemberEmail{},
			expectedUpsert: []MemberEmail{"a@x.com", "b@x.com"},
		},
		{
			name:           "empty source removes everyone",
			source:         nil,
			target:         subscribers("z@x.com", "c@x.com", "C@x.com"),
			expectedRemove: []MemberEmail{"c@x.com", "z@x.com"},
			expectedUpsert: []MemberEmail{},
		},
		{
			name:           "empty target upserts everyone",
			source:         members("a@x.com"),
			target:         nil,
			expectedRemove: []MemberEmail{},
			expectedUpsert: []MemberEmail{"a@x.com"},
		},
		{
			name:           "both empty",
			expectedRemove: []MemberEmail{},
			expectedUpsert: []MemberEmail{},
		},
		{
			name:           "blank addresses are ignored",
			source:         members(" ", "a@x.com"),
			target:         subscribers("", "a@x.com"),
			expectedRemove: []MemberEmail{},
			expectedUpsert: []MemberEmail{"a@x.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := NewReconciliationPlan(tt.source, tt.target)

			assert.Equal(t, tt.expectedRemove, plan.ToRemove)
			assert.Equal(t, tt.expectedUpsert, plan.UpsertEmails())
		})
	}
}

func TestReconciliationPlan_RemoveAndUpsertAreDisjoint(t *testing.T) {
	source := members("a@x.com", "B@x.com", "c@x.com", "d@x.com")
	target := subscribers("b@x.com", "e@x.com", "F@x.com", "a@X.com")

	plan := NewReconciliationPlan(source, target)

	upsert := make(EmailSet)
	for _, email := range plan.UpsertEmails() {
		upsert[email] = struct{}{}
	}

	for _, email := range plan.ToRemove {
		assert.False(t, upsert.Has(string(email)), "%s is both removed and upserted", email)
	}

	// every target email not in source is removed, every source email is upserted
	assert.Equal(t, []MemberEmail{"e@x.com", "f@x.com"}, plan.ToRemove)
	assert.Len(t, plan.ToUpsert, len(source))
}

func TestReconciliationPlan_SecondRunIsIdempotent(t *testing.T) {
	source := members("a@x.com", "b@x.com")

	first := NewReconciliationPlan(source, subscribers("b@x.com", "c@x.com"))

	// the sink after applying the first plan holds exactly the upserted members
	second := NewReconciliationPlan(source, first.UpsertEmails())

	assert.Empty(t, second.ToRemove)
	assert.Equal(t, first.ToUpsert, second.ToUpsert)
}

func TestReconciliationPlan_KeepsMetadata(t *testing.T) {
	source := []SourceMember{
		{Email: "Jane@x.com", FirstName: "Jane", LastName: "Doe"},
		{Email: "jane@x.com"},
	}

	plan := NewReconciliationPlan(source, nil)

	assert.Equal(t, []SourceMember{{Email: "Jane@x.com", FirstName: "Jane", LastName: "Doe"}}, plan.ToUpsert)
	assert.Equal(t, "Jane Doe", plan.ToUpsert[0].FullName())
}

func TestReconciliationPlan_IsEmpty(t *testing.T) {
	assert.True(t, NewReconciliationPlan(nil, nil).IsEmpty())
	assert.False(t, NewReconciliationPlan(nil, subscribers("a@x.com")).IsEmpty())
	assert.False(t, NewReconciliationPlan(members("a@x.com"), nil).IsEmpty())
}

func TestEmailSet(t *testing.T) {
	set := NewEmailSet("B@x.com", "a@x.com", "b@X.com", "")

	assert.Len(t, set, 2)
	assert.True(t, set.Has(" A@x.com "))
	assert.False(t, set.Has("c@x.com"))
	assert.Equal(t, []MemberEmail{"a@x.com", "b@x.com"}, set.Sorted())
}

func TestSilentPolicies(t *testing.T) {
	assert.Equal(t, RemoveOptions{DeleteMember: true, Notify: false}, SilentRemove())
	assert.Equal(t, UpsertOptions{DoubleOptIn: false, UpdateExisting: true}, SilentUpsert())
}
