package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"domainnav/internal/platform/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger()
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is not set")
			}
			ctx := cmd.Context()
			db, err := postgres.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			log.Info("schema applied")
			return nil
		},
	}
}
