// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/constants"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// syncMetrics are the counters emitted by the reconciler.
// They resolve against the global providers, which are no-ops until the SDK is set up.
type syncMetrics struct {
	tracer   trace.Tracer
	cycles   metric.Int64Counter
	removed  metric.Int64Counter
	upserted metric.Int64Counter
}

func newSyncMetrics() *syncMetrics {
	meter := otel.Meter(constants.ServiceName)
	m := &syncMetrics{
		tracer: otel.Tracer(constants.ServiceName),
	}

	var err error
	m.cycles, err = meter.Int64Counter("sync.cycles",
		metric.WithUnit("{cycle}"),
		metric.WithDescription("The number of reconciliation cycles, by outcome"),
	)
	if err != nil {
		slog.Warn("failed to create counter", "name", "sync.cycles", "error", err)
	}

	m.removed, err = meter.Int64Counter("sync.members.removed",
		metric.WithUnit("{member}"),
		metric.WithDescription("The number of members removed from the subscriber list"),
	)
	if err != nil {
		slog.Warn("failed to create counter", "name", "sync.members.removed", "error", err)
	}

	m.upserted, err = meter.Int64Counter("sync.members.upserted",
		metric.WithUnit("{member}"),
		metric.WithDescription("The number of members sent to the subscriber list in upsert batches"),
	)
	if err != nil {
		slog.Warn("failed to create counter", "name", "sync.members.upserted", "error", err)
	}

	return m
}

func (m *syncMetrics) cycleDone(ctx context.Context, outcome string) {
	if m.cycles == nil {
		return
	}
	m.cycles.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *syncMetrics) membersRemoved(ctx context.Context, n int) {
	if m.removed == nil || n == 0 {
		return
	}
	m.removed.Add(ctx, int64(n))
}

func (m *syncMetrics) membersUpserted(ctx context.Context, n int) {
	if m.upserted == nil || n == 0 {
		return
	}
	m.upserted.Add(ctx, int64(n))
}
