package main

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"semdaudit/internal/preflight"
)

var errPreflightFailed = errors.New("one or more checks failed")

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check database access, the registrar command and local directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			if ctx.jsonOutput {
				type jsonCheck struct {
					Name   string `json:"name"`
					Passed bool   `json:"passed"`
					Detail string `json:"detail"`
				}
				checks := make([]jsonCheck, 0, len(results))
				for _, r := range results {
					checks = append(checks, jsonCheck{Name: r.Name, Passed: r.Passed, Detail: r.Detail})
				}
				if err := writeJSON(cmd.OutOrStdout(), map[string]any{"checks": checks}); err != nil {
					return err
				}
			} else {
				colorize := isTerminal(cmd.OutOrStdout())
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					status := paint("OK", colorize, text.FgGreen)
					if !r.Passed {
						status = paint("FAIL", colorize, text.FgRed)
					}
					rows = append(rows, []string{r.Name, status, r.Detail})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"CHECK", "STATUS", "DETAIL"}, rows, nil))
			}

			if !preflight.AllPassed(results) {
				return errPreflightFailed
			}
			return nil
		},
	}
}
