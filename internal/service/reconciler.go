// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/log"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/redaction"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Reconciler makes a subscriber list mirror the membership of a source group.
// One call to Reconcile is one cycle: resolve the list, read both sides,
// remove the extras, then upsert every source member.
type Reconciler struct {
	source  port.SourceDirectoryReader
	list    port.SubscriberList
	metrics *syncMetrics
}

// NewReconciler creates a reconciler over the given source and sink
func NewReconciler(source port.SourceDirectoryReader, list port.SubscriberList) *Reconciler {
	return &Reconciler{
		source:  source,
		list:    list,
		metrics: newSyncMetrics(),
	}
}

// Reconcile runs one sync cycle.
//
// Errors are typed: errors.Configuration when the list does not exist,
// errors.Fetch when either side cannot be read, errors.Apply when a write
// fails. Nothing is written unless both reads succeed, and a failed write is
// neither retried nor rolled back.
func (r *Reconciler) Reconcile(ctx context.Context, sourceGroupID, targetListName string) (err error) {
	ctx = log.AppendCtx(ctx, slog.String("cycle_id", uuid.NewString()))

	ctx, span := r.metrics.tracer.Start(ctx, "reconcile", trace.WithAttributes(
		attribute.String("sync.source_group", sourceGroupID),
		attribute.String("sync.list_name", targetListName),
	))
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "failure"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		r.metrics.cycleDone(ctx, outcome)
		span.End()
	}()

	slog.InfoContext(ctx, "starting sync cycle",
		"source_group", sourceGroupID,
		"list_name", targetListName,
	)

	listID, plan, err := r.plan(ctx, sourceGroupID, targetListName)
	if err != nil {
		return err
	}

	span.SetAttributes(
		attribute.Int("sync.to_remove", len(plan.ToRemove)),
		attribute.Int("sync.to_upsert", len(plan.ToUpsert)),
	)

	if len(plan.ToRemove) > 0 {
		if errRemove := r.list.BatchRemove(ctx, listID, plan.ToRemove, model.SilentRemove()); errRemove != nil {
			slog.ErrorContext(ctx, "failed to remove members from list",
				"error", errRemove,
				"list_id", listID,
				"count", len(plan.ToRemove),
			)
			return errors.NewApply("failed to remove members", errRemove)
		}
		r.metrics.membersRemoved(ctx, len(plan.ToRemove))

		slog.InfoContext(ctx, "unsubscribed members",
			"list_id", listID,
			"count", len(plan.ToRemove),
			"emails", redaction.RedactEmails(plan.RemoveEmails()),
		)
	}

	if len(plan.ToUpsert) > 0 {
		result, errUpsert := r.list.BatchUpsert(ctx, listID, plan.ToUpsert, model.SilentUpsert())
		if errUpsert != nil {
			slog.ErrorContext(ctx, "failed to upsert members to list",
				"error", errUpsert,
				"list_id", listID,
				"count", len(plan.ToUpsert),
			)
			return errors.NewApply("failed to upsert members", errUpsert)
		}
		r.metrics.membersUpserted(ctx, len(plan.ToUpsert))

		if result == nil {
			result = &model.UpsertResult{}
		}
		slog.InfoContext(ctx, "updated list",
			"list_id", listID,
			"added", result.Added,
			"updated", result.Updated,
			"errored", result.Errored,
		)
	}

	slog.InfoContext(ctx, "done")

	return nil
}

// Plan resolves the list and diffs both sides without writing anything
func (r *Reconciler) Plan(ctx context.Context, sourceGroupID, targetListName string) (model.ReconciliationPlan, error) {
	_, plan, err := r.plan(ctx, sourceGroupID, targetListName)
	return plan, err
}

func (r *Reconciler) plan(ctx context.Context, sourceGroupID, targetListName string) (string, model.ReconciliationPlan, error) {
	listID, found, err := r.list.FindListByName(ctx, targetListName)
	if err != nil {
		slog.ErrorContext(ctx, "failed to look up subscriber list",
			"error", err,
			"list_name", targetListName,
		)
		return "", model.ReconciliationPlan{}, errors.NewFetch("failed to look up subscriber list", err)
	}
	if !found {
		slog.ErrorContext(ctx, "subscriber list not found", "list_name", targetListName)
		return "", model.ReconciliationPlan{}, errors.NewConfiguration(fmt.Sprintf("subscriber list %q not found", targetListName))
	}

	var (
		sourceMembers []model.SourceMember
		subscribers   []model.MemberEmail
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.InfoContext(gctx, "fetching source group members", "source_group", sourceGroupID)

		members, errFetch := r.source.ListMembers(gctx, sourceGroupID)
		if errFetch != nil {
			return errors.NewFetch("failed to fetch source group members", errFetch)
		}
		sourceMembers = members
		return nil
	})

	g.Go(func() error {
		slog.InfoContext(gctx, "fetching list members", "list_id", listID)

		emails, errFetch := r.list.ListMembers(gctx, listID)
		if errFetch != nil {
			return errors.NewFetch("failed to fetch list members", errFetch)
		}
		subscribers = emails
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "failed to fetch members", "error", err)
		return "", model.ReconciliationPlan{}, err
	}

	plan := model.NewReconciliationPlan(sourceMembers, subscribers)

	slog.DebugContext(ctx, "computed reconciliation plan",
		"source_count", len(sourceMembers),
		"list_count", len(subscribers),
		"to_remove", len(plan.ToRemove),
		"to_upsert", len(plan.ToUpsert),
	)

	return listID, plan, nil
}
