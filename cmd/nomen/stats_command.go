package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"nomen/internal/config"
	"nomen/internal/namestore"
	"nomen/internal/taxa"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var health bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show mapping progress and the latest run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *namestore.Store) error {
				if health {
					return printHealth(cmd, store)
				}

				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				rows := make([][]string, 0, len(stats))
				total := 0
				for _, state := range taxa.AllMappingStates() {
					count := stats[state]
					total += count
					rows = append(rows, []string{string(state), strconv.Itoa(count)})
				}
				rows = append(rows, []string{"total", strconv.Itoa(total)})
				fmt.Fprintln(out, renderTable(out,
					[]string{"State", "Entries"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))

				run, err := store.LatestRun(cmd.Context())
				if err != nil {
					if errors.Is(err, namestore.ErrNotFound) {
						fmt.Fprintln(out, "\nNo matching runs recorded")
						return nil
					}
					return err
				}
				fmt.Fprintf(out, "\nLatest run %s: %d total, %d mapped, %d deferred, %d failed\n",
					run.ID, run.Total, run.Mapped, run.Deferred, run.Failed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&health, "health", false, "Show database health diagnostics instead of mapping counts")
	return cmd
}

func printHealth(cmd *cobra.Command, store *namestore.Store) error {
	report, err := store.CheckHealth(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rows := [][]string{
		{"Database", report.DBPath},
		{"Exists", yesNo(report.DatabaseExists)},
		{"Readable", yesNo(report.DatabaseReadable)},
		{"Integrity check", yesNo(report.IntegrityCheck)},
		{"Names", strconv.Itoa(report.TotalNames)},
		{"Entries", strconv.Itoa(report.TotalEntries)},
	}
	fmt.Fprintln(out, renderTable(out, []string{"Check", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
	if len(report.MissingTables) > 0 {
		return fmt.Errorf("missing tables: %v", report.MissingTables)
	}
	return nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
