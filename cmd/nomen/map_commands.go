package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"nomen/internal/config"
	"nomen/internal/logging"
	"nomen/internal/namestore"
)

func newMapCommand(ctx *commandContext) *cobra.Command {
	var reviewer string
	var overrideGroup bool

	cmd := &cobra.Command{
		Use:   "map <entry-id> <name-id>",
		Short: "Manually map an entry to a canonical name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid entry ID %q", args[0])
			}
			nameID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid name ID %q", args[1])
			}
			if reviewer == "" {
				return errors.New("--reviewer is required for manual mappings")
			}

			return ctx.withStore(func(cfg *config.Config, store *namestore.Store) error {
				err := store.SetManualMapping(cmd.Context(), entryID, nameID, reviewer, overrideGroup)
				if errors.Is(err, namestore.ErrGroupMismatch) {
					return fmt.Errorf("%w (pass --override-group to map across name groups anyway)", err)
				}
				if err != nil {
					return err
				}
				if overrideGroup {
					// Cross-group overrides must leave a trace.
					ctx.logger().Warn("group mismatch override",
						logging.Int64("entry_id", entryID),
						logging.Int64("name_id", nameID),
						logging.String("reviewer", reviewer),
					)
				}

				name, err := store.GetName(cmd.Context(), nameID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Entry %d manually mapped to %q (name %d) by %s\n", entryID, name.EffectiveName(), nameID, reviewer)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reviewer, "reviewer", "", "Reviewer handle recorded as mapping provenance")
	cmd.Flags().BoolVar(&overrideGroup, "override-group", false, "Allow a mapping whose name group contradicts the entry's rank")
	return cmd
}

func newUnmapCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unmap <entry-id>",
		Short: "Reset an entry to the unmapped state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid entry ID %q", args[0])
			}
			return ctx.withStore(func(cfg *config.Config, store *namestore.Store) error {
				if err := store.ClearMapping(cmd.Context(), entryID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Entry %d unmapped\n", entryID)
				return nil
			})
		},
	}
}
