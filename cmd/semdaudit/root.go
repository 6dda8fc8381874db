package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var opts auditOptions

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "semdaudit [action]",
		Short: "Audit SEMD documents stuck in the transport bus",
		Long: `Lists SEMD documents whose latest transport event is still the initial
registration request. Pass "register" as the action to re-submit each of
them through the configured registrar command.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := ""
			if len(args) > 0 {
				action = args[0]
			}
			return runAudit(cmd, ctx, action, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&ctx.jsonOutput, "json", false, "Emit JSON instead of a table")

	flags := rootCmd.Flags()
	flags.IntVarP(&opts.month, "month", "m", 1, "Month of the window start (current month when omitted)")
	flags.IntVarP(&opts.day, "day", "d", 1, "Day of the window start (used with --month)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "In register mode, report documents without invoking the registrar")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress bar")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))

	return rootCmd
}
