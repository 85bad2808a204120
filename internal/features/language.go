// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package features

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var languageNamer = display.English.Languages()

// LanguageName returns the English name for an ISO 639-1 code such as "en"
// or "fr". Unknown or empty codes are returned unchanged.
func LanguageName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return code
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return code
	}
	if name := languageNamer.Name(tag); name != "" {
		return name
	}
	return code
}
