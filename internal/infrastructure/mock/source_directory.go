// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
)

// MockSourceDirectory implements port.SourceDirectoryReader
type MockSourceDirectory struct {
	mock *MockRepository
}

// ListMembers returns the members of a group. Unknown groups are a NotFound error.
func (d *MockSourceDirectory) ListMembers(ctx context.Context, groupID string) ([]model.SourceMember, error) {
	d.mock.mu.Lock()
	defer d.mock.mu.Unlock()

	if err := d.mock.record(OpListGroupMembers, groupID, nil); err != nil {
		return nil, err
	}

	members, ok := d.mock.groups[groupID]
	if !ok {
		return nil, errors.NewNotFound("group not found: " + groupID)
	}

	slog.DebugContext(ctx, "mock source directory returning members",
		"group_id", groupID,
		"count", len(members),
	)

	return append([]model.SourceMember(nil), members...), nil
}

// NewMockSourceDirectory creates a source directory backed by the repository
func NewMockSourceDirectory(mock *MockRepository) port.SourceDirectoryReader {
	return &MockSourceDirectory{mock: mock}
}
