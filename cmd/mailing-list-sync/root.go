// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/cmd/mailing-list-sync/service"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/config"
	internalService "github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/service"
	pkgerrors "github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/log"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/redaction"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/utils"
	"github.com/spf13/cobra"
)

// Exit codes, one per failure class of a sync cycle
const (
	ExitCodeSuccess       = 0
	ExitCodeError         = 1
	ExitCodeConfiguration = 2
	ExitCodeFetch         = 3
	ExitCodeApply         = 4
)

type rootOptions struct {
	configPath  string
	interval    time.Duration
	sourceGroup string
	listName    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "mailing-list-sync",
		Short: "Mirror the members of a source group into a subscriber list",
		Long: `mailing-list-sync reads the members of a source group (a Google group or
an LFX committee) and makes a subscriber list (Mailchimp or Groups.io) match it:
addresses missing from the group are removed, then every member is upserted.`,
		Version: Version,
		// errors are logged by main, with the exit code derived from their type
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.InitStructureLogConfig()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML configuration file")
	flags.DurationVar(&opts.interval, "interval", 0, "wait between two sync cycles (default 60m)")
	flags.StringVar(&opts.sourceGroup, "source-group", "", "identifier of the source group")
	flags.StringVar(&opts.listName, "list-name", "", "name of the target subscriber list")

	rootCmd.AddCommand(newRunCmd(opts), newOnceCmd(opts), newPlanCmd(opts))

	return rootCmd
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Sync now and then on every interval until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, reconciler, cleanup, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			scheduler := internalService.NewScheduler(func(ctx context.Context) error {
				return reconciler.Reconcile(ctx, cfg.SourceGroup, cfg.TargetListName)
			}, cfg.Interval)

			return scheduler.Start(ctx)
		},
	}
}

func newOnceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run a single sync cycle and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, reconciler, cleanup, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			return reconciler.Reconcile(context.WithoutCancel(ctx), cfg.SourceGroup, cfg.TargetListName)
		},
	}
}

func newPlanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show what a sync cycle would change without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, reconciler, cleanup, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			plan, err := reconciler.Plan(ctx, cfg.SourceGroup, cfg.TargetListName)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if plan.IsEmpty() {
				fmt.Fprintf(out, "list %q: nothing to do\n", cfg.TargetListName)
				return nil
			}

			fmt.Fprintf(out, "list %q: %d to remove, %d to upsert\n", cfg.TargetListName, len(plan.ToRemove), len(plan.ToUpsert))
			for _, email := range plan.RemoveEmails() {
				fmt.Fprintf(out, "  - %s\n", redaction.RedactEmail(email))
			}
			for _, email := range plan.UpsertEmails() {
				fmt.Fprintf(out, "  + %s\n", redaction.RedactEmail(email.String()))
			}
			return nil
		},
	}
}

// loadConfig reads the file and environment, then applies the flags that were set
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("interval") {
		cfg.Interval = opts.interval
	}
	if flags.Changed("source-group") {
		cfg.SourceGroup = opts.sourceGroup
	}
	if flags.Changed("list-name") {
		cfg.TargetListName = opts.listName
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// setup loads the configuration, starts telemetry and wires the reconciler.
// The returned cleanup flushes telemetry and closes the connections.
func setup(cmd *cobra.Command, opts *rootOptions) (config.Config, *internalService.Reconciler, func(), error) {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error setting up OpenTelemetry SDK", "error", err)
		otelShutdown = func(context.Context) error { return nil }
	}

	cleanup := func() {
		service.Close()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if errShutdown := otelShutdown(shutdownCtx); errShutdown != nil {
			slog.ErrorContext(shutdownCtx, "error shutting down OpenTelemetry SDK", "error", errShutdown)
		}
	}

	reconciler, err := service.Reconciler(ctx, cfg)
	if err != nil {
		cleanup()
		return config.Config{}, nil, nil, err
	}

	return cfg, reconciler, cleanup, nil
}

// getExitCode maps the error class of a failed run onto an exit code
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var configuration pkgerrors.Configuration
	if errors.As(err, &configuration) {
		return ExitCodeConfiguration
	}

	var fetch pkgerrors.Fetch
	if errors.As(err, &fetch) {
		return ExitCodeFetch
	}

	var apply pkgerrors.Apply
	if errors.As(err, &apply) {
		return ExitCodeApply
	}

	return ExitCodeError
}
