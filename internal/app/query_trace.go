package app

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxTracedQueryLength = 512

var (
	queryLineComment = regexp.MustCompile(`--[^\n]*`)
	queryWhitespace  = regexp.MustCompile(`\s+`)
)

// formatDBQueryForTrace collapses a statement onto one line for span attributes. Long
// multi-row inserts are cut at maxTracedQueryLength bytes on a rune boundary.
func formatDBQueryForTrace(query string) string {
	query = queryLineComment.ReplaceAllString(query, " ")
	query = strings.TrimSpace(queryWhitespace.ReplaceAllString(query, " "))
	if len(query) <= maxTracedQueryLength {
		return query
	}

	cut := maxTracedQueryLength
	for cut > 0 && !utf8.RuneStart(query[cut]) {
		cut--
	}
	return query[:cut] + "..."
}
