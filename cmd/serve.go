// file: cmd/serve.go
// version: 2.0.0
// guid: 3f4a5b6c-7d8e-9f0a-1b2c-3d4e5f6a7b90

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/obodeflix/obodeflix/internal/config"
	"github.com/obodeflix/obodeflix/internal/database"
	"github.com/obodeflix/obodeflix/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog server",
	Long:  `Start the HTTP server that exposes the catalog API and the admin event stream.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.InitializeStore(config.AppConfig.DatabaseType, config.AppConfig.DatabasePath, config.AppConfig.EnableSQLite); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		fmt.Printf("Using database: %s (%s)\n", config.AppConfig.DatabasePath, config.AppConfig.DatabaseType)

		// Persisted settings fill in what flags and env left empty
		if err := config.LoadConfigFromDatabase(database.GlobalStore); err != nil {
			fmt.Printf("Warning: Could not load config from database: %v\n", err)
		}
		if err := config.LoadConfigFromFile(); err != nil {
			fmt.Printf("Warning: Could not load config file: %v\n", err)
		}

		srv := server.NewServer(database.GlobalStore)
		cfg := server.GetDefaultServerConfig()

		if addr := cmd.Flag("addr").Value.String(); addr != "" {
			cfg.Addr = addr
		}
		if rt := cmd.Flag("read-timeout").Value.String(); rt != "" {
			if d, err := time.ParseDuration(rt); err == nil {
				cfg.ReadTimeout = d
			}
		}
		if it := cmd.Flag("idle-timeout").Value.String(); it != "" {
			if d, err := time.ParseDuration(it); err == nil {
				cfg.IdleTimeout = d
			}
		}

		fmt.Printf("Starting catalog server on %s\n", cfg.Addr)
		return srv.Start(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address, e.g. :8080")
	serveCmd.Flags().String("read-timeout", "15s", "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("idle-timeout", "60s", "idle timeout (e.g. 60s, 2m)")
}
