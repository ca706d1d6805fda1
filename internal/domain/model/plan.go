// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// ReconciliationPlan is the outcome of comparing the source group with the
// subscriber list.
//
// ToRemove holds the subscribers that are not in the source, ToUpsert holds
// every source member (full resync, already subscribed members included).
// The two never overlap.
type ReconciliationPlan struct {
	ToRemove []MemberEmail
	ToUpsert []SourceMember
}

// NewReconciliationPlan diffs the source members against the current subscribers.
//
// Source members are deduplicated case-insensitively, keeping the first
// occurrence and the source order. ToRemove is sorted.
func NewReconciliationPlan(source []SourceMember, target []MemberEmail) ReconciliationPlan {
	sourceSet := make(EmailSet, len(source))
	upsert := make([]SourceMember, 0, len(source))

	for _, member := range source {
		key := member.Key().String()
		if key == "" || sourceSet.Has(key) {
			continue
		}
		sourceSet.Add(key)
		upsert = append(upsert, member)
	}

	extra := make(EmailSet)
	for _, email := range target {
		if !sourceSet.Has(email.String()) {
			extra.Add(email.String())
		}
	}

	return ReconciliationPlan{
		ToRemove: extra.Sorted(),
		ToUpsert: upsert,
	}
}

// IsEmpty reports whether applying the plan would issue no call at all
func (p ReconciliationPlan) IsEmpty() bool {
	return len(p.ToRemove) == 0 && len(p.ToUpsert) == 0
}

// RemoveEmails returns ToRemove as plain strings
func (p ReconciliationPlan) RemoveEmails() []string {
	out := make([]string, len(p.ToRemove))
	for i, email := range p.ToRemove {
		out[i] = email.String()
	}
	return out
}

// UpsertEmails returns the normalized emails of ToUpsert
func (p ReconciliationPlan) UpsertEmails() []MemberEmail {
	out := make([]MemberEmail, len(p.ToUpsert))
	for i, member := range p.ToUpsert {
		out[i] = member.Key()
	}
	return out
}
