package cli

import (
	"log"
	"net/http"

	"workforce/database"
	"workforce/handlers"
	"workforce/scheduling"
	"workforce/store"

	"github.com/spf13/cobra"
)

func ServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.ServerPort = port
			}

			if err := database.Init(cfg.DatabaseDriver, cfg.DatabaseURL); err != nil {
				log.Fatalf("Failed to initialize database: %v", err)
			}
			if cfg.SeedDemo {
				if err := database.SeedDemo(database.GetDB()); err != nil {
					log.Fatalf("Failed to seed demo roster: %v", err)
				}
			}

			engine := scheduling.New(store.New(database.GetDB()))
			router := handlers.NewRouter(cfg, engine)

			log.Printf("Server starting on port %s (%s)", cfg.ServerPort, cfg.DatabaseDriver)
			return http.ListenAndServe(":"+cfg.ServerPort, router)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides SERVER_PORT)")
	return cmd
}
