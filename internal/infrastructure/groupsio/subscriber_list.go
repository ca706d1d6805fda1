// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package groupsio

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
)

// maxBatchSize bounds the number of addresses sent in one directadd or
// bulkremovemembers call
const maxBatchSize = 500

// SubscriberList implements port.SubscriberList with a Groups.io group as the list.
// The list ID is the numeric group ID.
type SubscriberList struct {
	client *Client
}

var _ port.SubscriberList = (*SubscriberList)(nil)

// NewSubscriberList creates the Groups.io subscriber list
func NewSubscriberList(client *Client) *SubscriberList {
	return &SubscriberList{client: client}
}

// FindListByName looks the group up among the account subscriptions
func (s *SubscriberList) FindListByName(ctx context.Context, name string) (string, bool, error) {
	subs, err := s.client.GetSubs(ctx)
	if err != nil {
		return "", false, err
	}

	for _, sub := range subs {
		if strings.EqualFold(sub.GroupName, name) {
			return strconv.FormatUint(sub.GroupID, 10), true, nil
		}
	}

	slog.DebugContext(ctx, "group not found among Groups.io subscriptions",
		"name", name,
		"subscriptions", len(subs),
	)

	return "", false, nil
}

// ListMembers returns the normalized emails of the group members
func (s *SubscriberList) ListMembers(ctx context.Context, listID string) ([]model.MemberEmail, error) {
	groupID, err := parseGroupID(listID)
	if err != nil {
		return nil, err
	}

	members, err := s.client.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	emails := make([]model.MemberEmail, 0, len(members))
	for _, m := range members {
		if email := model.NormalizeEmail(m.Email); email != "" {
			emails = append(emails, email)
		}
	}

	return emails, nil
}

// BatchRemove removes members with bulkremovemembers. Groups.io has no
// unsubscribe-only mode and never notifies on bulk removal, so both options
// are informational here.
func (s *SubscriberList) BatchRemove(ctx context.Context, listID string, emails []model.MemberEmail, opts model.RemoveOptions) error {
	if len(emails) == 0 {
		return nil
	}

	groupID, err := parseGroupID(listID)
	if err != nil {
		return err
	}

	if !opts.DeleteMember || opts.Notify {
		slog.WarnContext(ctx, "Groups.io removal ignores delete_member and notify options",
			"delete_member", opts.DeleteMember,
			"notify", opts.Notify,
		)
	}

	for _, batch := range batches(emails, maxBatchSize) {
		lines := make([]string, len(batch))
		for i, email := range batch {
			lines[i] = email.String()
		}

		err := s.client.BulkRemoveMembers(ctx, BulkRemoveOptions{
			GroupID: groupID,
			Emails:  strings.Join(lines, "\n"),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// BatchUpsert adds members with directadd, which subscribes them without an
// invitation. Addresses Groups.io reports as already subscribed count as updated.
func (s *SubscriberList) BatchUpsert(ctx context.Context, listID string, members []model.SourceMember, opts model.UpsertOptions) (*model.UpsertResult, error) {
	result := &model.UpsertResult{}
	if len(members) == 0 {
		return result, nil
	}

	if opts.DoubleOptIn {
		return nil, errors.NewValidation("Groups.io direct add does not support double opt-in")
	}

	groupID, err := parseGroupID(listID)
	if err != nil {
		return nil, err
	}

	for _, batch := range batches(members, maxBatchSize) {
		lines := make([]string, len(batch))
		for i, m := range batch {
			lines[i] = formatAddress(m)
		}

		res, err := s.client.DirectAdd(ctx, DirectAddOptions{
			GroupID: groupID,
			Emails:  strings.Join(lines, "\n"),
		})
		if err != nil {
			return nil, err
		}

		result.Added += len(res.AddedMembers)
		for _, e := range res.Errors {
			if opts.UpdateExisting && strings.Contains(strings.ToLower(e.Status), "already") {
				result.Updated++
				continue
			}
			result.Errored++
		}
	}

	return result, nil
}

func formatAddress(m model.SourceMember) string {
	email := strings.TrimSpace(m.Email)
	if name := m.FullName(); name != "" {
		return fmt.Sprintf("%s <%s>", name, email)
	}
	return email
}

func parseGroupID(listID string) (uint64, error) {
	groupID, err := strconv.ParseUint(listID, 10, 64)
	if err != nil {
		return 0, errors.NewValidation(fmt.Sprintf("invalid Groups.io group ID %q", listID), err)
	}
	return groupID, nil
}

func batches[T any](items []T, size int) [][]T {
	var chunks [][]T
	for size < len(items) {
		items, chunks = items[size:], append(chunks, items[:size])
	}
	return append(chunks, items)
}
