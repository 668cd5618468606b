package summary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethanbaker/carebridge/internal/stores/conversation"
	"github.com/ethanbaker/carebridge/pkg/utils"
	"github.com/openai/openai-go/v2/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeEntries builds chronological text entries, one minute apart
func makeEntries(texts ...string) []*conversation.Entry {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	entries := make([]*conversation.Entry, 0, len(texts))
	for i, text := range texts {
		role := conversation.RolePatient
		if i%2 == 1 {
			role = conversation.RoleDoctor
		}
		entries = append(entries, &conversation.Entry{
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
			ConversationID: conversation.DefaultConversationID,
			Role:           role,
			OriginalText:   text,
			TranslatedText: text,
			Language:       "en",
			TargetLanguage: "en",
			Kind:           conversation.InputText,
		})
	}
	return entries
}

func TestFormatTranscript(t *testing.T) {
	t.Run("one line per entry with role and timestamp", func(t *testing.T) {
		transcript := FormatTranscript(makeEntries("I have a fever", "Let me check"))

		lines := strings.Split(transcript, "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "[2025-03-10T09:00:00Z] Patient: I have a fever", lines[0])
		assert.Equal(t, "[2025-03-10T09:01:00Z] Doctor: Let me check", lines[1])
	})

	t.Run("translation continuation only when it differs", func(t *testing.T) {
		entries := makeEntries("I have a fever")
		entries[0].TranslatedText = "Tengo fiebre"

		transcript := FormatTranscript(entries)
		lines := strings.Split(transcript, "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "  (Translated: Tengo fiebre)", lines[1])
	})

	t.Run("empty input is empty", func(t *testing.T) {
		assert.Empty(t, FormatTranscript(nil))
	})
}

func TestClassify(t *testing.T) {
	categories := DefaultCategories()

	t.Run("routes lines into matching categories", func(t *testing.T) {
		transcript := FormatTranscript(makeEntries(
			"I have a fever",
			"Take this medication twice daily",
			"See you next week for follow-up",
		))

		sections := Classify(categories, transcript)
		require.Len(t, sections, 7)

		byKey := map[string]Section{}
		for _, section := range sections {
			byKey[section.Key] = section
		}

		require.Len(t, byKey["symptoms"].Lines, 1)
		assert.Contains(t, byKey["symptoms"].Lines[0], "I have a fever")

		require.Len(t, byKey["medications"].Lines, 1)
		assert.Contains(t, byKey["medications"].Lines[0], "Take this medication twice daily")

		require.Len(t, byKey["follow_up"].Lines, 1)
		assert.Contains(t, byKey["follow_up"].Lines[0], "See you next week for follow-up")

		assert.Equal(t, []string{NoneMentioned}, byKey["history"].Lines)
		assert.Equal(t, []string{NoneMentioned}, byKey["diagnosis"].Lines)
		assert.Equal(t, []string{NoneMentioned}, byKey["concerns"].Lines)
	})

	t.Run("a line may land in multiple categories", func(t *testing.T) {
		transcript := FormatTranscript(makeEntries(
			"The pain needs medication",
		))

		sections := Classify(categories, transcript)
		byKey := map[string]Section{}
		for _, section := range sections {
			byKey[section.Key] = section
		}

		assert.Contains(t, byKey["symptoms"].Lines[0], "pain")
		assert.Contains(t, byKey["medications"].Lines[0], "medication")
	})

	t.Run("caps retained lines per category", func(t *testing.T) {
		texts := make([]string, 8)
		for i := range texts {
			texts[i] = "still in pain today"
		}

		sections := Classify(categories, FormatTranscript(makeEntries(texts...)))
		for _, section := range sections {
			if section.Key == "symptoms" {
				assert.Len(t, section.Lines, 5)
			}
		}
	})

	t.Run("skips translation continuation lines", func(t *testing.T) {
		entries := makeEntries("Hello there")
		entries[0].TranslatedText = "I have a fever" // would match if scanned

		sections := Classify(categories, FormatTranscript(entries))
		for _, section := range sections {
			if section.Key == "symptoms" {
				assert.Equal(t, []string{NoneMentioned}, section.Lines)
			}
		}
	})
}

func TestSummarizeFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("without credential returns all seven sections and never fails", func(t *testing.T) {
		extractor := NewExtractor(utils.NewConfig(nil))
		entries := makeEntries(
			"I have a fever",
			"Take this medication twice daily",
			"See you next week for follow-up",
		)

		report := extractor.Summarize(ctx, entries)
		require.NotNil(t, report)

		assert.Equal(t, SourceFallback, report.Source)
		assert.Equal(t, 3, report.MessageCount)
		assert.False(t, report.GeneratedAt.IsZero())
		require.Len(t, report.Sections, 7)

		for _, section := range report.Sections {
			assert.NotEmpty(t, section.Lines)
		}

		assert.Contains(t, report.Summary, "SYMPTOMS:")
		assert.Contains(t, report.Summary, "FOLLOW-UP ACTIONS:")
		assert.Contains(t, report.Summary, NoneMentioned)
	})

	t.Run("empty conversation still yields a full report", func(t *testing.T) {
		extractor := NewExtractor(utils.NewConfig(nil))

		report := extractor.Summarize(ctx, nil)
		require.Len(t, report.Sections, 7)
		assert.Equal(t, 0, report.MessageCount)

		for _, section := range report.Sections {
			assert.Equal(t, []string{NoneMentioned}, section.Lines)
		}
	})

	t.Run("model failure degrades to the fallback path", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		cfg := utils.NewConfig(map[string]string{"OPENAI_API_KEY": "test-key"})
		extractor := NewExtractor(cfg, option.WithBaseURL(server.URL), option.WithMaxRetries(0))

		report := extractor.Summarize(ctx, makeEntries("I have a fever"))
		require.NotNil(t, report)
		assert.Equal(t, SourceFallback, report.Source)
	})
}

func TestSummarizeGenerative(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"1. CHIEF COMPLAINT/SYMPTOMS:\n- Fever"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	cfg := utils.NewConfig(map[string]string{"OPENAI_API_KEY": "test-key"})
	extractor := NewExtractor(cfg, option.WithBaseURL(server.URL))

	report := extractor.Summarize(context.Background(), makeEntries("I have a fever"))
	require.NotNil(t, report)

	assert.Equal(t, SourceGenerative, report.Source)
	assert.Contains(t, report.Summary, "CHIEF COMPLAINT")
	assert.Empty(t, report.Sections)
	assert.Equal(t, 1, report.MessageCount)
}

func TestLoadCategories(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCategories("/does/not/exist.yml")
		assert.Error(t, err)
	})
}
