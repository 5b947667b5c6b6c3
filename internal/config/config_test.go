// file: internal/config/config_test.go
// version: 2.0.0
// guid: 7d8e9f0a-1b2c-3d4e-5f6a-7b8c9d0e1f2a

package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/obodeflix/obodeflix/internal/database"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestInitConfigDefaults(t *testing.T) {
	resetViper(t)
	InitConfig()

	if AppConfig.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", AppConfig.ListenAddr)
	}
	if AppConfig.DatabaseType != "pebble" {
		t.Errorf("DatabaseType = %q", AppConfig.DatabaseType)
	}
	if AppConfig.EnableSQLite {
		t.Error("SQLite should be opt-in")
	}
	if AppConfig.SessionTTL != 72*time.Hour {
		t.Errorf("SessionTTL = %v", AppConfig.SessionTTL)
	}
	if len(AppConfig.SupportedExtensions) == 0 {
		t.Error("expected default extensions")
	}
}

func TestInitConfigNormalizesSQLiteAlias(t *testing.T) {
	resetViper(t)
	viper.Set("database_type", "sqlite3")
	InitConfig()
	if AppConfig.DatabaseType != "sqlite" {
		t.Errorf("DatabaseType = %q", AppConfig.DatabaseType)
	}
}

func TestConfigDatabaseRoundTrip(t *testing.T) {
	resetViper(t)
	InitConfig()
	AppConfig.RawFolder = "/media/raw"
	AppConfig.SessionTTL = 24 * time.Hour

	settings := map[string]string{}
	store := &database.MockStore{
		SetSettingFunc: func(key, value string) error {
			settings[key] = value
			return nil
		},
		GetAllSettingsFunc: func() ([]database.Setting, error) {
			out := []database.Setting{}
			for key, value := range settings {
				out = append(out, database.Setting{Key: key, Value: value})
			}
			return out, nil
		},
	}

	if err := SaveConfigToDatabase(store); err != nil {
		t.Fatalf("SaveConfigToDatabase: %v", err)
	}

	AppConfig.RawFolder = ""
	AppConfig.SessionTTL = 0
	if err := LoadConfigFromDatabase(store); err != nil {
		t.Fatalf("LoadConfigFromDatabase: %v", err)
	}
	if AppConfig.RawFolder != "/media/raw" {
		t.Errorf("RawFolder = %q", AppConfig.RawFolder)
	}
	if AppConfig.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v", AppConfig.SessionTTL)
	}
}
