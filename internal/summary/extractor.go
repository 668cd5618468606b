// Package summary turns a conversation's entries into a structured
// report. A generative model writes the report when OPENAI_API_KEY is
// configured; otherwise, or on any model failure, a deterministic
// keyword classifier takes over so summarization never fails outward.
package summary

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/ethanbaker/carebridge/internal/stores/conversation"
	"github.com/ethanbaker/carebridge/pkg/utils"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Report sources
const (
	SourceGenerative = "generative"
	SourceFallback   = "fallback"
)

// Report is the derived summary of a conversation. Sections is populated
// on the fallback path; on the generative path the prose Summary is the
// whole payload.
type Report struct {
	Summary      string    `json:"summary"`
	Sections     []Section `json:"sections,omitempty"`
	Source       string    `json:"source"`
	MessageCount int       `json:"message_count"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Extractor builds summary reports
type Extractor struct {
	categories   []Category
	client       openai.Client
	hasModel     bool
	model        string
	systemPrompt string
}

// NewExtractor creates an extractor from configuration. Extra request
// options are appended to the OpenAI client (tests use this to point at
// a fake server).
func NewExtractor(cfg *utils.Config, opts ...option.RequestOption) *Extractor {
	categories := DefaultCategories()
	if path := cfg.Get("SUMMARY_KEYWORDS_PATH"); path != "" {
		loaded, err := LoadCategories(path)
		if err != nil {
			log.Printf("[SUMMARY]: Warning, could not load keyword table from %s, using built-in table: %v", path, err)
		} else {
			categories = loaded
		}
	}

	extractor := &Extractor{
		categories:   categories,
		model:        cfg.GetWithDefault("SUMMARY_MODEL", string(openai.ChatModelGPT4oMini)),
		systemPrompt: utils.LoadPromptWithFallback(cfg.Get("SUMMARY_PROMPT_PATH"), defaultSystemPrompt),
	}

	if apiKey := cfg.Get("OPENAI_API_KEY"); apiKey != "" {
		extractor.client = openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
		extractor.hasModel = true
	}

	return extractor
}

// Summarize produces a report for the given entries, which must be in
// chronological order. It never fails: model errors degrade to the
// keyword classifier.
func (e *Extractor) Summarize(ctx context.Context, entries []*conversation.Entry) *Report {
	transcript := FormatTranscript(entries)

	if e.hasModel {
		if text, err := e.generate(ctx, transcript); err == nil {
			return &Report{
				Summary:      text,
				Source:       SourceGenerative,
				MessageCount: len(entries),
				GeneratedAt:  time.Now().UTC(),
			}
		} else {
			log.Printf("[SUMMARY]: Warning, generative summary failed, falling back to keyword extraction: %v", err)
		}
	} else {
		log.Println("[SUMMARY]: OPENAI_API_KEY not set, using keyword extraction")
	}

	sections := Classify(e.categories, transcript)

	return &Report{
		Summary:      renderSections(sections),
		Sections:     sections,
		Source:       SourceFallback,
		MessageCount: len(entries),
		GeneratedAt:  time.Now().UTC(),
	}
}

// renderSections formats classified sections as the prose report body
func renderSections(sections []Section) string {
	var b strings.Builder
	b.WriteString("MEDICAL CONSULTATION SUMMARY\n")

	for _, section := range sections {
		b.WriteString("\n" + section.Label + ":\n")
		for _, line := range section.Lines {
			if line == NoneMentioned {
				b.WriteString(line + "\n")
			} else {
				b.WriteString("- " + line + "\n")
			}
		}
	}

	return b.String()
}
