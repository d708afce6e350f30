package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"nomen/internal/config"
	"nomen/internal/match"
	"nomen/internal/namestore"
	"nomen/internal/taxa"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "review",
		Short: "List deferred entries with their candidate breakdowns",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *namestore.Store) error {
				entries, err := store.EntriesByState(cmd.Context(), taxa.MappingDeferred)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No entries awaiting review")
					return nil
				}
				if limit > 0 && len(entries) > limit {
					entries = entries[:limit]
				}

				for _, entry := range entries {
					fmt.Fprintf(out, "Entry %d: %q (rank %s, source %d)\n", entry.ID, entry.RawName, entry.Rank, entry.SourceID)

					reports, err := match.DecodeCandidates(entry.CandidatesJSON)
					if err != nil {
						return fmt.Errorf("entry %d candidates: %w", entry.ID, err)
					}
					if len(reports) == 0 {
						fmt.Fprintln(out, "  no candidates found")
						fmt.Fprintln(out)
						continue
					}

					rows := make([][]string, 0, len(reports))
					for _, report := range reports {
						year := ""
						if report.Year != 0 {
							year = strconv.Itoa(report.Year)
						}
						rows = append(rows, []string{
							strconv.FormatInt(report.NameID, 10),
							report.Name,
							year,
							string(report.Stage),
							string(report.Spelling),
							strconv.FormatFloat(report.Score, 'f', -1, 64),
						})
					}
					fmt.Fprintln(out, renderTable(out,
						[]string{"Name ID", "Name", "Year", "Stage", "Spelling", "Score"},
						rows,
						[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignRight},
					))
					fmt.Fprintln(out)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show (0 means all)")
	return cmd
}
