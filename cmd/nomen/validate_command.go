package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"nomen/internal/config"
	"nomen/internal/lint"
	"nomen/internal/namestore"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Cross-check persisted mappings for inconsistencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *namestore.Store) error {
				report, err := lint.New(store, lint.WithLogger(ctx.logger())).Run(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Checked %d mapped entries: %d warnings, %d errors\n", report.Entries, report.Warnings(), report.Errors())
				if len(report.Issues) > 0 {
					rows := make([][]string, 0, len(report.Issues))
					for _, issue := range report.Issues {
						rows = append(rows, []string{
							strconv.FormatInt(issue.EntryID, 10),
							issue.RawName,
							string(issue.Severity),
							string(issue.Check),
							issue.Message,
						})
					}
					fmt.Fprintln(out, renderTable(out,
						[]string{"Entry", "Raw name", "Severity", "Check", "Detail"},
						rows,
						[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
					))
				}

				if errs := report.Errors(); errs > 0 {
					return fmt.Errorf("%d hard validation errors", errs)
				}
				return nil
			})
		},
	}
}
