package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"nomen/internal/config"
	"nomen/internal/namestore"
	"nomen/internal/runner"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var sourceID int64
	var force bool

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run batch matching over classification entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *namestore.Store) error {
				summary, err := runner.New(store, cfg, ctx.logger()).Run(cmd.Context(), runner.Options{
					SourceID: sourceID,
					Force:    force,
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %s finished in %s\n\n", summary.RunID, summary.Duration.Round(timeRounding))
				fmt.Fprintln(out, renderTable(out,
					[]string{"Total", "Mapped", "Deferred", "Unusable", "Skipped manual", "Failed"},
					[][]string{{
						strconv.Itoa(summary.Total),
						strconv.Itoa(summary.Mapped),
						strconv.Itoa(summary.Deferred),
						strconv.Itoa(summary.Unusable),
						strconv.Itoa(summary.SkippedManual),
						strconv.Itoa(summary.Failed),
					}},
					[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&sourceID, "source", 0, "Restrict the run to one source ID (0 means all)")
	cmd.Flags().BoolVar(&force, "force", false, "Re-match entries with manual mappings")
	return cmd
}
