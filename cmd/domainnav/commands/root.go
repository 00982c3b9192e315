package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"domainnav/internal/platform/config"
	"domainnav/internal/platform/logger"
)

var (
	configPath string
	cfg        config.Config
	log        *slog.Logger
)

// Execute runs the domainnav command tree.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "domainnav",
		Short:        "Domain navigator server",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (env vars override it)")

	root.AddCommand(serveCmd(), migrateCmd())
	return root
}

// setupLogger builds the process logger once flags have been applied.
func setupLogger() {
	log = logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
}
