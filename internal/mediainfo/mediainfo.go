// file: internal/mediainfo/mediainfo.go
// version: 2.0.0
// guid: 3d4e5f6a-7b8c-9d0e-1f2a-3b4c5d6e7f8a

package mediainfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// MediaInfo holds technical information about a media file
type MediaInfo struct {
	Format   string
	Codec    string
	Duration int // seconds, 0 when it cannot be determined
}

// Probe reads media information from a file. The native TagLib path (build
// tag 'taglib') handles most containers; without it only the MP4 family
// yields metadata and the duration stays 0 for the operator to fill in.
func Probe(filePath string) (*MediaInfo, error) {
	info := &MediaInfo{}
	ext := strings.ToLower(filepath.Ext(filePath))
	info.Format = strings.TrimPrefix(ext, ".")

	if taglibAvailable {
		if err := probeWithTaglib(filePath, info); err == nil {
			return info, nil
		}
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// Unknown container. Format from the extension is still useful.
		return info, nil
	}

	switch m.FileType() {
	case tag.M4A, tag.M4B, tag.M4P:
		info.Codec = "AAC"
	case tag.MP3:
		info.Codec = "MP3"
	case tag.FLAC:
		info.Codec = "FLAC"
	case tag.OGG:
		info.Codec = "Vorbis"
	}

	raw := m.Raw()
	if duration, ok := raw["duration"]; ok {
		if seconds, ok := duration.(int); ok && seconds > 0 {
			info.Duration = seconds
		}
	}
	return info, nil
}
