// file: internal/backup/backup.go
// version: 2.0.0
// guid: 9f0a1b2c-3d4e-5f6a-7b8c-d0e0f0a0b0c0

// Package backup archives the catalog database to a compressed tarball and
// restores it again. Backups cover both store flavors: the PebbleDB
// directory or the single SQLite file.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Info describes one backup archive.
type Info struct {
	Filename     string    `json:"filename"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	Checksum     string    `json:"checksum"`
	DatabaseType string    `json:"databaseType"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Config controls where backups land and how many are kept.
type Config struct {
	Dir        string
	MaxBackups int
}

// DefaultConfig keeps the last ten backups in ./backups.
func DefaultConfig() Config {
	return Config{Dir: "backups", MaxBackups: 10}
}

// Create archives the database at databasePath. The server must not be
// running against it while the backup is taken.
func Create(databasePath, databaseType string, cfg Config) (*Info, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("catalog_%s_%s.tar.gz", databaseType, timestamp)
	archivePath := filepath.Join(cfg.Dir, filename)

	if err := writeArchive(archivePath, databasePath); err != nil {
		os.Remove(archivePath)
		return nil, err
	}

	stat, err := os.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}
	checksum, err := fileChecksum(archivePath)
	if err != nil {
		return nil, err
	}

	if err := pruneOld(cfg); err != nil {
		log.Printf("[WARN] could not prune old backups: %v", err)
	}

	return &Info{
		Filename:     filename,
		Path:         archivePath,
		Size:         stat.Size(),
		Checksum:     checksum,
		DatabaseType: databaseType,
		CreatedAt:    stat.ModTime(),
	}, nil
}

// List returns the backups in cfg.Dir, newest first.
func List(cfg Config) ([]Info, error) {
	entries, err := os.ReadDir(cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, err
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tar.gz") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Filename:     entry.Name(),
			Path:         filepath.Join(cfg.Dir, entry.Name()),
			Size:         info.Size(),
			DatabaseType: typeFromFilename(entry.Name()),
			CreatedAt:    info.ModTime(),
		})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Restore unpacks an archive over targetPath. Any existing database there
// is moved aside with a .pre-restore suffix first, and put back if the
// restore fails.
func Restore(archivePath, targetPath string) error {
	if _, err := os.Stat(archivePath); err != nil {
		return fmt.Errorf("backup not found: %w", err)
	}

	aside := targetPath + ".pre-restore"
	hadExisting := false
	if _, err := os.Stat(targetPath); err == nil {
		hadExisting = true
		if err := os.Rename(targetPath, aside); err != nil {
			return fmt.Errorf("failed to move existing database aside: %w", err)
		}
	}

	if err := extractArchive(archivePath, targetPath); err != nil {
		os.RemoveAll(targetPath)
		if hadExisting {
			os.Rename(aside, targetPath)
		}
		return fmt.Errorf("restore failed: %w", err)
	}

	if hadExisting {
		os.RemoveAll(aside)
	}
	return nil
}

// writeArchive tars databasePath (file or directory) into a gzip archive.
// Entry names are relative to the database's parent so a restore can land
// anywhere.
func writeArchive(archivePath, databasePath string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer out.Close()

	gzWriter := gzip.NewWriter(out)
	tarWriter := tar.NewWriter(gzWriter)

	base := filepath.Dir(databasePath)
	err = filepath.Walk(databasePath, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		relative, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(relative)
		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(tarWriter, file)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to archive database: %w", err)
	}

	if err := tarWriter.Close(); err != nil {
		return err
	}
	return gzWriter.Close()
}

// extractArchive unpacks the archive so the entry matching the target's
// base name lands at targetPath.
func extractArchive(archivePath, targetPath string) error {
	in, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer in.Close()

	gzReader, err := gzip.NewReader(in)
	if err != nil {
		return err
	}
	defer gzReader.Close()

	targetBase := filepath.Base(targetPath)
	destRoot := filepath.Dir(targetPath)

	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		name := filepath.FromSlash(header.Name)
		parts := strings.Split(name, string(filepath.Separator))
		// Remap the archived database name onto the target name.
		parts[0] = targetBase
		dest := filepath.Join(destRoot, filepath.Join(parts...))
		if !strings.HasPrefix(dest, filepath.Clean(destRoot)+string(filepath.Separator)) {
			return fmt.Errorf("archive entry escapes target: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}
			file, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return err
			}
			if _, err := io.Copy(file, tarReader); err != nil {
				file.Close()
				return err
			}
			file.Close()
		}
	}
	return nil
}

func fileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// pruneOld deletes the oldest archives beyond MaxBackups.
func pruneOld(cfg Config) error {
	if cfg.MaxBackups < 1 {
		return nil
	}
	backups, err := List(cfg)
	if err != nil {
		return err
	}
	for _, old := range backups[min(len(backups), cfg.MaxBackups):] {
		if err := os.Remove(old.Path); err != nil {
			return err
		}
	}
	return nil
}

func typeFromFilename(name string) string {
	parts := strings.Split(name, "_")
	if len(parts) >= 2 {
		return parts[1]
	}
	return ""
}
