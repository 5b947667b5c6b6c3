// file: cmd/backup.go
// version: 2.0.0
// guid: 9e0f1a2b-3c4d-5e6f-7a8b-9c0d1e2f3a40

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/obodeflix/obodeflix/internal/backup"
	"github.com/obodeflix/obodeflix/internal/config"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up and restore the catalog database",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Archive the database to a compressed backup",
	Long:  `Archive the database. Stop the server first; a backup of a live database may be inconsistent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := backupConfig(cmd)
		info, err := backup.Create(config.AppConfig.DatabasePath, config.AppConfig.DatabaseType, cfg)
		if err != nil {
			return err
		}
		fmt.Printf("Created %s (%d bytes, sha256 %s)\n", info.Path, info.Size, info.Checksum[:12])
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List existing backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		backups, err := backup.List(backupConfig(cmd))
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Println("No backups found")
			return nil
		}
		for _, b := range backups {
			fmt.Printf("%s  %10d  %s\n", b.CreatedAt.Format("2006-01-02 15:04:05"), b.Size, b.Filename)
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <archive>",
	Short: "Restore the database from a backup archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := backup.Restore(args[0], config.AppConfig.DatabasePath); err != nil {
			return err
		}
		fmt.Printf("Restored %s from %s\n", config.AppConfig.DatabasePath, args[0])
		return nil
	},
}

func backupConfig(cmd *cobra.Command) backup.Config {
	cfg := backup.DefaultConfig()
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.Dir = dir
	}
	if keep, _ := cmd.Flags().GetInt("keep"); keep > 0 {
		cfg.MaxBackups = keep
	}
	return cfg
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)

	for _, sub := range []*cobra.Command{backupCreateCmd, backupListCmd} {
		sub.Flags().String("dir", "", "backup directory (default backups)")
		sub.Flags().Int("keep", 0, "how many backups to keep")
	}
}
