package conversation

import (
	"strings"
	"unicode/utf8"
)

const (
	// snippetRadius is how many characters of surrounding text a snippet
	// keeps on each side of the matched query
	snippetRadius = 50

	// snippetFallbackLength bounds the snippet in characters when the
	// query is not found in the concatenated text
	snippetFallbackLength = 100

	ellipsis = "..."
)

// Match pairs a found entry with a snippet of the matched text
type Match struct {
	Entry   *Entry `json:"entry"`
	Snippet string `json:"snippet"`
}

// MakeSnippet locates the first case-insensitive occurrence of query in
// the concatenation of both text fields and returns a window of
// surrounding text, clipped to the string bounds and marked with
// ellipses where clipped. The window is measured in runes, so a clip
// edge never splits a multi-byte character.
//
// The per-field match in Search and the concatenated match here can
// disagree (the query may span the field boundary in neither field), so
// a miss falls back to the head of the concatenation.
func MakeSnippet(query, originalText, translatedText string) string {
	text := originalText + " " + translatedText
	lowered := strings.ToLower(text)

	runes := []rune(text)

	pos := strings.Index(lowered, strings.ToLower(query))
	if pos == -1 {
		if len(runes) > snippetFallbackLength {
			return string(runes[:snippetFallbackLength]) + ellipsis
		}
		return text
	}

	// Translate the byte offset of the match into rune positions
	matchStart := utf8.RuneCountInString(lowered[:pos])
	matchLen := utf8.RuneCountInString(strings.ToLower(query))

	start := matchStart - snippetRadius
	if start < 0 {
		start = 0
	}
	end := matchStart + matchLen + snippetRadius
	if end > len(runes) {
		end = len(runes)
	}

	snippet := string(runes[start:end])
	if start > 0 {
		snippet = ellipsis + snippet
	}
	if end < len(runes) {
		snippet = snippet + ellipsis
	}

	return snippet
}
