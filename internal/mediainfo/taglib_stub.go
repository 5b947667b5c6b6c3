// file: internal/mediainfo/taglib_stub.go
// version: 2.0.0
// guid: 5f6a7b8c-9d0e-1f2a-3b4c-5d6e7f8a9b0c

//go:build !taglib

package mediainfo

import "errors"

// taglibAvailable false when not built with taglib
var taglibAvailable = false

var errTaglibUnavailable = errors.New("taglib support not compiled in")

func probeWithTaglib(filePath string, info *MediaInfo) error {
	return errTaglibUnavailable
}
