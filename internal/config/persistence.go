// file: internal/config/persistence.go
// version: 2.0.0
// guid: 6c7d8e9f-0a1b-2c3d-4e5f-6a7b8c9d0e1f

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/obodeflix/obodeflix/internal/database"
)

// ConfigFilePath returns the path to the YAML config file next to the database.
func ConfigFilePath() string {
	if AppConfig.DatabasePath != "" {
		return filepath.Join(filepath.Dir(AppConfig.DatabasePath), "config.yaml")
	}
	return ""
}

// LoadConfigFromDatabase overlays persisted settings onto the in-memory
// config. Flags and environment still win for anything they set explicitly,
// which is why this only fills empty values.
func LoadConfigFromDatabase(store database.Store) error {
	settings, err := store.GetAllSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	for _, setting := range settings {
		switch setting.Key {
		case "rawFolder":
			if AppConfig.RawFolder == "" {
				AppConfig.RawFolder = setting.Value
			}
		case "sessionTTLHours":
			hours, err := strconv.Atoi(setting.Value)
			if err == nil && hours > 0 {
				AppConfig.SessionTTL = time.Duration(hours) * time.Hour
			}
		case "supportedExtensions":
			var exts []string
			if err := yaml.Unmarshal([]byte(setting.Value), &exts); err == nil && len(exts) > 0 {
				AppConfig.SupportedExtensions = exts
			}
		}
	}
	return nil
}

// SaveConfigToDatabase persists the runtime-adjustable settings.
func SaveConfigToDatabase(store database.Store) error {
	exts, err := yaml.Marshal(AppConfig.SupportedExtensions)
	if err != nil {
		return err
	}
	values := map[string]string{
		"rawFolder":           AppConfig.RawFolder,
		"sessionTTLHours":     strconv.Itoa(int(AppConfig.SessionTTL.Hours())),
		"supportedExtensions": string(exts),
	}
	for key, value := range values {
		if err := store.SetSetting(key, value); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}
	return nil
}

// LoadConfigFromFile loads settings from the YAML config file as a fallback.
// Called after LoadConfigFromDatabase so file values only fill in gaps.
func LoadConfigFromFile() error {
	path := ConfigFilePath()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileConfig map[string]any
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		log.Printf("Warning: Failed to parse config file %s: %v", path, err)
		return nil
	}

	applied := 0
	stringFallbacks := map[string]*string{
		"raw_folder": &AppConfig.RawFolder,
		"base_url":   &AppConfig.BaseURL,
		"api_token":  &AppConfig.APIToken,
	}
	for key, ptr := range stringFallbacks {
		if *ptr == "" {
			if val, ok := fileConfig[key].(string); ok && val != "" {
				*ptr = val
				applied++
			}
		}
	}

	if applied > 0 {
		log.Printf("[INFO] Applied %d settings from config file %s", applied, path)
	}
	return nil
}

// SaveConfigToFile writes key settings to a YAML config file next to the
// database so the admin CLI can find the server and token between runs.
func SaveConfigToFile() error {
	path := ConfigFilePath()
	if path == "" {
		return fmt.Errorf("cannot determine config file path")
	}

	fileConfig := map[string]any{
		"raw_folder":    AppConfig.RawFolder,
		"base_url":      AppConfig.BaseURL,
		"api_token":     AppConfig.APIToken,
		"database_path": AppConfig.DatabasePath,
	}

	data, err := yaml.Marshal(fileConfig)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
