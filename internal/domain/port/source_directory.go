// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package port defines the interfaces for external dependencies and adapters.
package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/model"
)

// SourceDirectoryReader reads the authoritative membership of a group
type SourceDirectoryReader interface {
	// ListMembers returns every member of the group, following pagination.
	// An empty group is not an error.
	ListMembers(ctx context.Context, groupID string) ([]model.SourceMember, error)
}
