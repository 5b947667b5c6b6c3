// file: internal/models/duration_test.go
// version: 1.0.0
// guid: 5a1c7e9b-3d2f-4b8a-9c0d-6e7f8a9b0c1d

package models

import "testing"

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "00s"},
		{59, "59s"},
		{60, "01min00s"},
		{65, "01min05s"},
		{3599, "59min59s"},
		{3600, "01h00min00s"},
		{3661, "01h01min01s"},
		{36001, "10h00min01s"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatDurationNegative(t *testing.T) {
	if got := FormatDuration(-5); got != "00s" {
		t.Errorf("negative duration should clamp to 00s, got %q", got)
	}
}
