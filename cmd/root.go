// file: cmd/root.go
// version: 2.0.0
// guid: 2e3f4a5b-6c7d-8e9f-0a1b-2c3d4e5f6a70

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/obodeflix/obodeflix/internal/client"
	"github.com/obodeflix/obodeflix/internal/config"
)

var cfgFile string
var serverURL string
var apiToken string
var databasePath string
var databaseType string
var enableSQLite bool
var rawFolder string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "obodeflix",
	Short: "Manage a series catalog of seasons, episodes and tags",
	Long: `OBODEFLIX serves a media catalog of series, seasons and episodes over
HTTP and ships the admin tooling for it: interactive catalog browsing,
create/update/inactivate commands, and an import wizard that turns raw
media files into episodes.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.obodeflix.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "catalog server address for admin commands")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "bearer token for admin commands")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "obodeflix.pebble", "path to database (default: obodeflix.pebble for PebbleDB)")
	rootCmd.PersistentFlags().StringVar(&databaseType, "db-type", "pebble", "database type: pebble (default) or sqlite")
	rootCmd.PersistentFlags().BoolVar(&enableSQLite, "enable-sqlite3-i-know-the-risks", false, "enable SQLite3 database (WARNING: cross-compilation issues, PebbleDB recommended)")
	rootCmd.PersistentFlags().StringVar(&rawFolder, "raw-folder", "", "root directory of unimported media files")

	viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("api_token", rootCmd.PersistentFlags().Lookup("token"))
	viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("database_type", rootCmd.PersistentFlags().Lookup("db-type"))
	viper.BindPFlag("enable_sqlite3_i_know_the_risks", rootCmd.PersistentFlags().Lookup("enable-sqlite3-i-know-the-risks"))
	viper.BindPFlag("raw_folder", rootCmd.PersistentFlags().Lookup("raw-folder"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".obodeflix")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	// Ensure database directory exists
	if databasePath != "" {
		dbDir := filepath.Dir(databasePath)
		if dbDir != "." {
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				fmt.Printf("Error creating database directory: %v\n", err)
			}
		}
	}

	config.InitConfig()
}

// apiClient builds the client the admin commands share, pulling in the
// token saved by a previous login when none was given on the command line.
func apiClient() *client.Client {
	if config.AppConfig.APIToken == "" {
		if err := config.LoadConfigFromFile(); err != nil {
			fmt.Printf("Warning: could not read saved config: %v\n", err)
		}
	}
	return client.New(config.AppConfig.BaseURL, client.WithToken(config.AppConfig.APIToken))
}
