package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"semdaudit/internal/audit"
	"semdaudit/internal/logging"
	"semdaudit/internal/period"
	"semdaudit/internal/registrar"
	"semdaudit/internal/runlock"
	"semdaudit/internal/semd"
)

type auditOptions struct {
	month      int
	day        int
	dryRun     bool
	noProgress bool
}

// overrides applies --month/--day only when --month was given explicitly.
func (o auditOptions) overrides(cmd *cobra.Command) period.Overrides {
	if !cmd.Flags().Changed("month") {
		return period.Overrides{}
	}
	return period.Overrides{Month: period.Int(o.month), Day: period.Int(o.day)}
}

func runAudit(cmd *cobra.Command, ctx *commandContext, action string, opts auditOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	mode := audit.ParseMode(action)
	since, err := period.Resolve(opts.overrides(cmd), now())
	if err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stderr := cmd.ErrOrStderr()
	session, err := logging.NewFromConfig(cfg, uuid.NewString(), stderr)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer session.Close()
	logger := session.Logger
	logger.Debug("audit run configured",
		logging.String(logging.FieldMode, string(mode)),
		logging.String("since", semd.FormatBound(since)),
		logging.Bool("dry_run", opts.dryRun),
		logging.String("log_path", session.LogPath),
	)

	store, err := semd.Open(signalCtx, cfg, logger)
	if err != nil {
		logger.Error("open document store", logging.Error(err))
		return err
	}
	defer store.Close()

	dispatchOpts := audit.DispatcherOptions{
		Mode:        mode,
		ErrorStatus: cfg.Documents.ErrorStatus,
		DryRun:      opts.dryRun,
		Logger:      logger,
	}
	if mode == audit.ModeRegister && !opts.dryRun {
		lock, err := runlock.Acquire(cfg.LockPath())
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("release run lock", logging.Error(err))
			}
		}()
		reg, err := registrar.NewFromConfig(cfg, logger)
		if err != nil {
			return fmt.Errorf("configure registrar: %w", err)
		}
		dispatchOpts.Registrar = reg
	}

	dispatcher, err := audit.NewDispatcher(dispatchOpts)
	if err != nil {
		return err
	}

	var callbacks audit.Progress
	var display *progressDisplay
	if !opts.noProgress && !ctx.jsonOutput && isTerminal(stderr) {
		display = newProgressDisplay(stderr, dispatcher.Label())
		callbacks = display.callbacks()
	}

	report, err := audit.NewRunner(store, dispatcher, callbacks, logger).Run(signalCtx, since)
	if display != nil {
		display.stop()
	}
	if err != nil {
		if signalCtx.Err() != nil {
			return context.Canceled
		}
		logger.Error("audit run failed", logging.Error(err))
		return err
	}

	if ctx.jsonOutput {
		return writeReportJSON(cmd.OutOrStdout(), report)
	}
	renderReport(cmd.OutOrStdout(), report, isTerminal(cmd.OutOrStdout()))
	return nil
}
