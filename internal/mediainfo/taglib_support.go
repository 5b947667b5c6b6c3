// file: internal/mediainfo/taglib_support.go
// version: 2.0.0
// guid: 4e5f6a7b-8c9d-0e1f-2a3b-4c5d6e7f8a9b

//go:build taglib
// +build taglib

package mediainfo

import (
	taglib "go.senan.xyz/taglib"
)

// taglibAvailable indicates native taglib path compiled in
var taglibAvailable = true

func probeWithTaglib(filePath string, info *MediaInfo) error {
	props, err := taglib.ReadProperties(filePath)
	if err != nil {
		return err
	}
	info.Duration = int(props.Length.Seconds())
	return nil
}
