package cli

import (
	"fmt"

	"cardtrack/internal/database"
	"cardtrack/internal/repository"
	"cardtrack/internal/service"

	"github.com/spf13/cobra"
)

// NewBackfillOwnersCommand creates the backfill-owners command, which gives
// every board that predates the owner membership rule its owner membership.
func NewBackfillOwnersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "backfill-owners",
		Short:        "Create missing owner memberships",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := rootOpts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			db, err := database.Open(cfg, logger)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			if cfg.AutoMigrate {
				if err := database.Migrate(db); err != nil {
					return err
				}
			}

			boards := service.NewBoardService(repository.NewBoardRepository(db), nil, nil)
			added, err := boards.BackfillOwners(cmd.Context())
			if err != nil {
				return fmt.Errorf("backfill owners: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d owner memberships\n", added)
			return nil
		},
	}
}
