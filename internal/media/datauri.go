// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectMIME sniffs the content type of data. The detected type is only
// trusted when it shares the top-level type of fallback ("image/...",
// "video/..."); anything else yields fallback.
func DetectMIME(data []byte, fallback string) string {
	detected := mimetype.Detect(data).String()
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}

	if topLevel(detected) == topLevel(fallback) {
		return detected
	}
	return fallback
}

// DataURI encodes data as data:<mime>;base64,<payload>.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Extension returns the file extension (with dot) for mime, or "" when
// the type is unknown.
func Extension(mime string) string {
	if m := mimetype.Lookup(mime); m != nil {
		return m.Extension()
	}
	return ""
}

func topLevel(mime string) string {
	if i := strings.IndexByte(mime, '/'); i >= 0 {
		return mime[:i]
	}
	return mime
}
