// file: internal/backup/backup_test.go
// version: 2.0.0
// guid: 0a1b2c3d-4e5f-6a7b-8c9d-e0f0a0b0c0d0

package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeDatabaseDir(t *testing.T, root string) string {
	t.Helper()
	dbPath := filepath.Join(root, "catalog.pebble")
	if err := os.MkdirAll(dbPath, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dbPath, "MANIFEST"), []byte("manifest"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dbPath, "000001.sst"), []byte("records"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dbPath
}

func TestCreateAndList(t *testing.T) {
	root := t.TempDir()
	dbPath := writeDatabaseDir(t, root)
	cfg := Config{Dir: filepath.Join(root, "backups"), MaxBackups: 10}

	info, err := Create(dbPath, "pebble", cfg)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if info.Size == 0 || info.Checksum == "" {
		t.Fatalf("incomplete backup info: %+v", info)
	}
	if info.DatabaseType != "pebble" {
		t.Fatalf("unexpected database type %q", info.DatabaseType)
	}

	backups, err := List(cfg)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 1 || backups[0].Filename != info.Filename {
		t.Fatalf("unexpected listing: %+v", backups)
	}
}

func TestListEmptyDir(t *testing.T) {
	backups, err := List(Config{Dir: filepath.Join(t.TempDir(), "missing")})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 0 {
		t.Fatalf("expected no backups, got %d", len(backups))
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	dbPath := writeDatabaseDir(t, root)
	cfg := Config{Dir: filepath.Join(root, "backups"), MaxBackups: 10}

	info, err := Create(dbPath, "pebble", cfg)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Wreck the live database, then restore.
	if err := os.WriteFile(filepath.Join(dbPath, "MANIFEST"), []byte("corrupt"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Restore(info.Path, dbPath); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dbPath, "MANIFEST"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "manifest" {
		t.Fatalf("restore did not recover contents, got %q", data)
	}
}

func TestRestoreToDifferentName(t *testing.T) {
	root := t.TempDir()
	dbPath := writeDatabaseDir(t, root)
	cfg := Config{Dir: filepath.Join(root, "backups"), MaxBackups: 10}

	info, err := Create(dbPath, "pebble", cfg)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	target := filepath.Join(root, "renamed.pebble")
	if err := Restore(info.Path, target); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if _, err := os.Stat(filepath.Join(target, "000001.sst")); err != nil {
		t.Fatalf("restored file missing: %v", err)
	}
}

func TestRestoreMissingArchive(t *testing.T) {
	if err := Restore(filepath.Join(t.TempDir(), "nope.tar.gz"), t.TempDir()); err == nil {
		t.Fatal("expected error for missing archive")
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	cfg := Config{Dir: t.TempDir(), MaxBackups: 2}

	now := time.Now()
	for i := 0; i < 3; i++ {
		name := filepath.Join(cfg.Dir, fmt.Sprintf("catalog_pebble_%d.tar.gz", i))
		if err := os.WriteFile(name, []byte("archive"), 0o644); err != nil {
			t.Fatal(err)
		}
		stamp := now.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(name, stamp, stamp); err != nil {
			t.Fatal(err)
		}
	}

	if err := pruneOld(cfg); err != nil {
		t.Fatalf("pruneOld: %v", err)
	}

	backups, err := List(cfg)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("prune kept %d backups", len(backups))
	}
	// The oldest archive is the one that went.
	for _, b := range backups {
		if b.Filename == "catalog_pebble_0.tar.gz" {
			t.Fatal("oldest backup survived pruning")
		}
	}
}
