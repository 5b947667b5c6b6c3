// file: internal/models/duration.go
// version: 1.0.0
// guid: 2e9a4c1f-6b3d-4e5a-9c8b-7d0e1f2a3b4c

package models

import "fmt"

// FormatDuration renders seconds as the catalog's duration literal.
// Leading zero units are omitted wholesale, remaining units are zero-padded:
// 0 -> "00s", 59 -> "59s", 65 -> "01min05s", 3661 -> "01h01min01s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%02dh%02dmin%02ds", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%02dmin%02ds", minutes, secs)
	default:
		return fmt.Sprintf("%02ds", secs)
	}
}
