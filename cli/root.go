// Package cli holds the workforce command tree.
package cli

import (
	"fmt"
	"os"

	"workforce/config"
	"workforce/database"
	"workforce/scheduling"
	"workforce/store"

	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"
)

var configFile string

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "workforce",
		Short: "Workforce allocation service",
		Long: `workforce manages a roster of workers, the jobs they are allocated to,
and the allocations that tie a supervisor and a crew to a job.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", os.Getenv("CONFIG_FILE"), "YAML config file (overrides environment)")

	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(DeadlinesCmd())
	rootCmd.AddCommand(ExportCmd())
	return rootCmd
}

func loadConfig() (*config.Config, error) {
	return config.LoadFile(configFile)
}

// openEngine connects to the configured database quietly, for one-shot
// commands that print their own output.
func openEngine(cfg *config.Config) (*scheduling.Engine, error) {
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL, logger.Default.LogMode(logger.Silent))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return scheduling.New(store.New(db)), nil
}
