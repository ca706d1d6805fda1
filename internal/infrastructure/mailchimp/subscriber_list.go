// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mailchimp

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/redaction"
	"golang.org/x/sync/errgroup"
)

// SubscriberList implements port.SubscriberList with a Mailchimp audience as the list
type SubscriberList struct {
	client *Client
}

var _ port.SubscriberList = (*SubscriberList)(nil)

// NewSubscriberList creates the Mailchimp subscriber list
func NewSubscriberList(client *Client) *SubscriberList {
	return &SubscriberList{client: client}
}

// FindListByName returns the ID of the first audience with exactly that name
func (s *SubscriberList) FindListByName(ctx context.Context, name string) (string, bool, error) {
	lists, err := s.client.GetLists(ctx)
	if err != nil {
		return "", false, err
	}

	for _, l := range lists {
		if l.Name == name {
			return l.ID, true, nil
		}
	}

	return "", false, nil
}

// ListMembers returns the normalized emails of the subscribed members, sorted.
// Unsubscribed, cleaned and pending contacts are not on the list.
func (s *SubscriberList) ListMembers(ctx context.Context, listID string) ([]model.MemberEmail, error) {
	members, err := s.client.GetMembers(ctx, listID, StatusSubscribed)
	if err != nil {
		return nil, err
	}

	addresses := make([]string, 0, len(members))
	for _, m := range members {
		if m.Status == StatusSubscribed {
			addresses = append(addresses, m.EmailAddress)
		}
	}

	return model.NewEmailSet(addresses...).Sorted(), nil
}

// BatchRemove archives the members (see Client.DeleteMember), or only
// unsubscribes them when DeleteMember is false. The API never notifies on these calls.
func (s *SubscriberList) BatchRemove(ctx context.Context, listID string, emails []model.MemberEmail, opts model.RemoveOptions) error {
	if len(emails) == 0 {
		return nil
	}

	if opts.Notify {
		slog.WarnContext(ctx, "Mailchimp API removals never send notifications, notify option ignored")
	}

	if !opts.DeleteMember {
		return s.unsubscribe(ctx, listID, emails)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.client.config.Concurrency)

	for _, email := range emails {
		g.Go(func() error {
			err := s.client.DeleteMember(gctx, listID, email.String())
			var notFound errors.NotFound
			if stderrors.As(err, &notFound) {
				slog.DebugContext(gctx, "member already absent from Mailchimp list",
					"email", redaction.RedactEmail(email.String()))
				return nil
			}
			return err
		})
	}

	return g.Wait()
}

func (s *SubscriberList) unsubscribe(ctx context.Context, listID string, emails []model.MemberEmail) error {
	for _, batch := range batches(emails, s.client.config.BatchSize) {
		req := BatchRequest{UpdateExisting: true}
		for _, email := range batch {
			req.Members = append(req.Members, BatchMember{
				EmailAddress: email.String(),
				Status:       StatusUnsubscribed,
			})
		}

		if _, err := s.client.BatchSubscribe(ctx, listID, req); err != nil {
			return err
		}
	}
	return nil
}

// BatchUpsert subscribes the members in chunks of BatchSize. With DoubleOptIn
// new members are created pending and receive a confirmation email.
func (s *SubscriberList) BatchUpsert(ctx context.Context, listID string, members []model.SourceMember, opts model.UpsertOptions) (*model.UpsertResult, error) {
	result := &model.UpsertResult{}

	status := StatusSubscribed
	if opts.DoubleOptIn {
		status = StatusPending
	}

	for _, batch := range batches(members, s.client.config.BatchSize) {
		req := BatchRequest{UpdateExisting: opts.UpdateExisting}
		for _, m := range batch {
			req.Members = append(req.Members, BatchMember{
				EmailAddress: m.Email,
				Status:       status,
				MergeFields:  mergeFields(m),
			})
		}

		resp, err := s.client.BatchSubscribe(ctx, listID, req)
		if err != nil {
			return nil, err
		}

		result.Added += resp.TotalCreated
		result.Updated += resp.TotalUpdated
		result.Errored += resp.ErrorCount

		for _, e := range resp.Errors {
			slog.WarnContext(ctx, "Mailchimp rejected member",
				"email", redaction.RedactEmail(e.EmailAddress),
				"error_code", e.ErrorCode,
				"error", e.Error,
			)
		}
	}

	return result, nil
}

// mergeFields carries only the names the source knows, so an upsert never
// blanks a name already stored in the audience
func mergeFields(m model.SourceMember) map[string]string {
	fields := map[string]string{}
	if m.FirstName != "" {
		fields["FNAME"] = m.FirstName
	}
	if m.LastName != "" {
		fields["LNAME"] = m.LastName
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func batches[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	var out [][]T
	for size < len(items) {
		items, out = items[size:], append(out, items[:size])
	}
	return append(out, items)
}
