// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/config"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/infrastructure/google"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/infrastructure/groupsio"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/infrastructure/mailchimp"
	infrastructure "github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/infrastructure/nats"
	internalService "github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/service"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
)

var (
	natsClient *nats.NATSClient
	natsErr    error

	natsDoOnce sync.Once
)

func natsInit(ctx context.Context) (*nats.NATSClient, error) {
	natsDoOnce.Do(func() {
		natsConfig, err := nats.NewConfigFromEnv()
		if err != nil {
			natsErr = errors.NewConfiguration("invalid NATS configuration", err)
			return
		}

		natsClient, natsErr = nats.NewClient(ctx, natsConfig)
	})
	return natsClient, natsErr
}

// Close releases the connections opened by the providers
func Close() {
	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			slog.Warn("failed to close NATS connection", "error", err)
		}
	}
}

// SourceDirectory initializes the source directory implementation selected by the configuration
func SourceDirectory(ctx context.Context, cfg config.Config) (port.SourceDirectoryReader, error) {
	switch cfg.SourceDirectory {
	case constants.SourceDirectoryMock:
		slog.InfoContext(ctx, "initializing mock source directory")
		return infrastructure.NewMockSourceDirectory(infrastructure.NewMockRepository()), nil
	case constants.SourceDirectoryGoogle:
		slog.InfoContext(ctx, "initializing Google directory")
		directory, err := google.NewDirectory(ctx, google.NewConfigFromEnv())
		if err != nil {
			return nil, err
		}
		return directory, nil
	case constants.SourceDirectoryNATS:
		slog.InfoContext(ctx, "initializing NATS committee directory")
		client, err := natsInit(ctx)
		if err != nil {
			return nil, err
		}
		return nats.NewCommitteeDirectory(client), nil
	default:
		return nil, errors.NewConfiguration(fmt.Sprintf("unsupported source directory implementation: %s", cfg.SourceDirectory))
	}
}

// SubscriberList initializes the subscriber list implementation selected by the configuration
func SubscriberList(ctx context.Context, cfg config.Config) (port.SubscriberList, error) {
	switch cfg.SubscriberList {
	case constants.SubscriberListMock:
		slog.InfoContext(ctx, "initializing mock subscriber list")
		return infrastructure.NewMockSubscriberList(infrastructure.NewMockRepository()), nil
	case constants.SubscriberListMailchimp:
		slog.InfoContext(ctx, "initializing Mailchimp subscriber list")
		client, err := mailchimp.NewClient(mailchimp.NewConfigFromEnv())
		if err != nil {
			return nil, err
		}
		return mailchimp.NewSubscriberList(client), nil
	case constants.SubscriberListGroupsIO:
		slog.InfoContext(ctx, "initializing Groups.io subscriber list")
		groupsioConfig, err := groupsio.NewConfigFromEnv()
		if err != nil {
			return nil, err
		}
		client, err := groupsio.NewClient(groupsioConfig)
		if err != nil {
			return nil, err
		}
		return groupsio.NewSubscriberList(client), nil
	default:
		return nil, errors.NewConfiguration(fmt.Sprintf("unsupported subscriber list implementation: %s", cfg.SubscriberList))
	}
}

// Reconciler wires the configured source and sink into a reconciler
func Reconciler(ctx context.Context, cfg config.Config) (*internalService.Reconciler, error) {
	source, err := SourceDirectory(ctx, cfg)
	if err != nil {
		return nil, err
	}

	list, err := SubscriberList(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return internalService.NewReconciler(source, list), nil
}
