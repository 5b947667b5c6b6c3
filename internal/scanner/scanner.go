// file: internal/scanner/scanner.go
// version: 2.0.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/obodeflix/obodeflix/internal/mediainfo"
	"github.com/obodeflix/obodeflix/internal/models"
)

// Scanner walks the raw media folder offered to the import wizard. Paths
// returned to callers are always relative to the root so the catalog never
// leaks the host layout.
type Scanner struct {
	Root       string
	Extensions []string
}

// New creates a scanner rooted at the given folder
func New(root string, extensions []string) *Scanner {
	return &Scanner{Root: root, Extensions: extensions}
}

// Folders lists every directory under the root, relative paths, sorted.
// The root itself is included as "." so files directly under it can be picked.
func (s *Scanner) Folders() ([]string, error) {
	if s.Root == "" {
		return nil, fmt.Errorf("raw folder not configured")
	}

	folders := []string{}
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		// Hidden directories are never import candidates.
		if d.Name() != "." && strings.HasPrefix(d.Name(), ".") && path != s.Root {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		folders = append(folders, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk raw folder: %w", err)
	}
	sort.Strings(folders)
	return folders, nil
}

// Files lists importable media files directly inside one folder, probing
// each for its duration. The folder is relative to the root.
func (s *Scanner) Files(folder string) ([]models.EpisodeFile, error) {
	dir, err := s.resolve(folder)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	files := []models.EpisodeFile{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !s.supported(entry.Name()) {
			continue
		}
		full := filepath.Join(dir, entry.Name())
		rel, err := filepath.Rel(s.Root, full)
		if err != nil {
			return nil, err
		}

		file := models.EpisodeFile{
			Name: entry.Name(),
			Path: filepath.ToSlash(rel),
		}
		if info, err := mediainfo.Probe(full); err == nil {
			file.Duration = info.Duration
		}
		files = append(files, file)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// resolve turns a relative folder into an absolute path, rejecting anything
// that escapes the root.
func (s *Scanner) resolve(folder string) (string, error) {
	if s.Root == "" {
		return "", fmt.Errorf("raw folder not configured")
	}
	if folder == "" {
		folder = "."
	}
	cleaned := filepath.Clean(filepath.FromSlash(folder))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("folder %q escapes the raw folder", folder)
	}
	return filepath.Join(s.Root, cleaned), nil
}

func (s *Scanner) supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range s.Extensions {
		if strings.EqualFold(candidate, ext) {
			return true
		}
	}
	return false
}
