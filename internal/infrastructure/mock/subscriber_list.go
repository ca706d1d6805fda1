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

// MockSubscriberList implements port.SubscriberList
type MockSubscriberList struct {
	mock *MockRepository
}

// FindListByName resolves a list name to its ID
func (l *MockSubscriberList) FindListByName(ctx context.Context, name string) (string, bool, error) {
	l.mock.mu.Lock()
	defer l.mock.mu.Unlock()

	if err := l.mock.record(OpFindListByName, name, nil); err != nil {
		return "", false, err
	}

	id, ok := l.mock.lists[name]
	return id, ok, nil
}

// ListMembers returns the subscribed emails of a list, sorted
func (l *MockSubscriberList) ListMembers(ctx context.Context, listID string) ([]model.MemberEmail, error) {
	l.mock.mu.Lock()
	defer l.mock.mu.Unlock()

	if err := l.mock.record(OpListMembers, listID, nil); err != nil {
		return nil, err
	}

	subs, ok := l.mock.subscribers[listID]
	if !ok {
		return nil, errors.NewNotFound("list not found: " + listID)
	}

	set := make(model.EmailSet, len(subs))
	for email := range subs {
		set[email] = struct{}{}
	}
	return set.Sorted(), nil
}

// BatchRemove deletes the given emails from the list. Absent emails are ignored.
func (l *MockSubscriberList) BatchRemove(ctx context.Context, listID string, emails []model.MemberEmail, opts model.RemoveOptions) error {
	l.mock.mu.Lock()
	defer l.mock.mu.Unlock()

	if err := l.mock.record(OpBatchRemove, listID, emails); err != nil {
		return err
	}

	subs, ok := l.mock.subscribers[listID]
	if !ok {
		return errors.NewNotFound("list not found: " + listID)
	}

	for _, email := range emails {
		delete(subs, model.NormalizeEmail(string(email)))
	}

	slog.DebugContext(ctx, "mock subscriber list removed members",
		"list_id", listID,
		"count", len(emails),
		"delete_member", opts.DeleteMember,
	)

	return nil
}

// BatchUpsert adds new members and updates existing ones
func (l *MockSubscriberList) BatchUpsert(ctx context.Context, listID string, members []model.SourceMember, opts model.UpsertOptions) (*model.UpsertResult, error) {
	l.mock.mu.Lock()
	defer l.mock.mu.Unlock()

	keys := make([]model.MemberEmail, len(members))
	for i, member := range members {
		keys[i] = member.Key()
	}

	if err := l.mock.record(OpBatchUpsert, listID, keys); err != nil {
		return nil, err
	}

	subs, ok := l.mock.subscribers[listID]
	if !ok {
		return nil, errors.NewNotFound("list not found: " + listID)
	}

	result := &model.UpsertResult{}
	for _, member := range members {
		key := member.Key()
		if _, exists := subs[key]; exists {
			if !opts.UpdateExisting {
				result.Errored++
				continue
			}
			result.Updated++
		} else {
			result.Added++
		}
		subs[key] = member
	}

	return result, nil
}

// NewMockSubscriberList creates a subscriber list backed by the repository
func NewMockSubscriberList(mock *MockRepository) port.SubscriberList {
	return &MockSubscriberList{mock: mock}
}
