package utils

import (
	"fmt"
	"os"
	"strings"
)

// LoadPrompt reads prompt instructions from the exact file path given,
// trimmed of surrounding whitespace. No search paths are tried.
func LoadPrompt(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %s: %w", filePath, err)
	}

	return strings.TrimSpace(string(content)), nil
}

// LoadPromptWithFallback reads prompt instructions from a file, returning
// the fallback string when the file cannot be read. An empty path always
// yields the fallback, so unset config keys can be passed straight through.
func LoadPromptWithFallback(filePath, fallback string) string {
	if content, err := LoadPrompt(filePath); err == nil {
		return content
	}
	return fallback
}
