// file: internal/mediainfo/mediainfo_test.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package mediainfo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProbeMissingFile(t *testing.T) {
	if _, err := Probe("/nonexistent/file.mkv"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestProbeUnknownContainerKeepsFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "episode.MKV")
	if err := os.WriteFile(path, []byte("not a real container"), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Format != "mkv" {
		t.Errorf("Format = %q", info.Format)
	}
	if info.Duration != 0 {
		t.Errorf("Duration = %d, want 0 for unreadable container", info.Duration)
	}
}
