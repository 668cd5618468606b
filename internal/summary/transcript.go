package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethanbaker/carebridge/internal/stores/conversation"
)

// FormatTranscript renders entries as a chronological transcript, one
// line per spoken message with an indented translation continuation only
// when it differs from the original text.
func FormatTranscript(entries []*conversation.Entry) string {
	var b strings.Builder

	for _, entry := range entries {
		fmt.Fprintf(&b, "[%s] %s: %s\n",
			entry.CreatedAt.Format(time.RFC3339),
			capitalize(string(entry.Role)),
			entry.OriginalText)

		if entry.TranslatedText != "" && entry.TranslatedText != entry.OriginalText {
			fmt.Fprintf(&b, "  (Translated: %s)\n", entry.TranslatedText)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// capitalize upper-cases the first byte of an ASCII role name
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
