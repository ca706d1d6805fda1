// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/model"
)

// SubscriberListReader defines the interface for reading a subscriber list
type SubscriberListReader interface {
	// FindListByName resolves a list display name to its identifier.
	// found is false when no list has that name.
	FindListByName(ctx context.Context, name string) (listID string, found bool, err error)

	// ListMembers returns the emails currently on the list, following pagination
	ListMembers(ctx context.Context, listID string) ([]model.MemberEmail, error)
}

// SubscriberListWriter defines the interface for changing list membership
type SubscriberListWriter interface {
	// BatchRemove removes the given members in a single logical operation
	BatchRemove(ctx context.Context, listID string, emails []model.MemberEmail, opts model.RemoveOptions) error

	// BatchUpsert adds or updates the given members in a single logical operation
	BatchUpsert(ctx context.Context, listID string, members []model.SourceMember, opts model.UpsertOptions) (*model.UpsertResult, error)
}

// SubscriberList combines read and write access to a subscriber list
type SubscriberList interface {
	SubscriberListReader
	SubscriberListWriter
}
