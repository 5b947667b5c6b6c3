// file: internal/config/config.go
// version: 2.0.0
// guid: 5b6c7d8e-9f0a-1b2c-3d4e-5f6a7b8c9d0e

package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	ListenAddr   string
	BaseURL      string // catalog address used by the admin CLI
	DatabasePath string
	DatabaseType string // "pebble" (default) or "sqlite"
	EnableSQLite bool   // Must be true to use SQLite (safety flag)
	RawFolder    string // root of unimported media files
	SessionTTL   time.Duration
	APIToken     string // admin CLI bearer token, if already logged in
	SupportedExtensions []string
}

var AppConfig Config

// InitConfig initializes the application configuration
func InitConfig() {
	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("base_url", "http://localhost:8080")
	viper.SetDefault("database_type", "pebble")
	viper.SetDefault("enable_sqlite3_i_know_the_risks", false)
	viper.SetDefault("session_ttl_hours", 72)

	AppConfig = Config{
		ListenAddr:   viper.GetString("listen_addr"),
		BaseURL:      viper.GetString("base_url"),
		DatabasePath: viper.GetString("database_path"),
		DatabaseType: viper.GetString("database_type"),
		EnableSQLite: viper.GetBool("enable_sqlite3_i_know_the_risks"),
		RawFolder:    viper.GetString("raw_folder"),
		SessionTTL:   time.Duration(viper.GetInt("session_ttl_hours")) * time.Hour,
		APIToken:     viper.GetString("api_token"),
		SupportedExtensions: []string{
			".mkv", ".mp4", ".avi", ".webm", ".mov", ".ts", ".m2ts",
		},
	}

	if exts := viper.GetStringSlice("supported_extensions"); len(exts) > 0 {
		AppConfig.SupportedExtensions = exts
	}

	// Normalize database type
	if AppConfig.DatabaseType == "sqlite3" {
		AppConfig.DatabaseType = "sqlite"
	}
	if AppConfig.DatabaseType == "" {
		AppConfig.DatabaseType = "pebble"
	}
}
