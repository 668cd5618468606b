// Package ingest orchestrates one inbound message end to end:
// transcription (for audio), translation, then persistence. The failure
// policy is asymmetric on purpose: a message with no transcribed text is
// meaningless, so transcription failures abort; a message with no
// translation is still useful, so translation degrades instead.
package ingest

import (
	"context"
	"fmt"

	"github.com/ethanbaker/carebridge/internal/stores/conversation"
)

// Transcriber turns an audio reference into text
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL, languageHint string) (string, error)
}

// Translator converts text between language codes, degrading instead of
// failing
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) string
}

// Appender persists enriched entries
type Appender interface {
	Append(ctx context.Context, draft conversation.Draft) (*conversation.Entry, error)
}

// Draft is one inbound message before enrichment
type Draft struct {
	ConversationID string
	Role           conversation.Role
	Kind           conversation.InputKind
	Text           string // set when Kind is text
	AudioURL       string // set when Kind is audio
	Language       string
	TargetLanguage string
}

// Coordinator runs the enrichment pipeline for inbound messages
type Coordinator struct {
	transcriber Transcriber
	translator  Translator
	store       Appender
}

// NewCoordinator wires the pipeline's collaborators
func NewCoordinator(transcriber Transcriber, translator Translator, store Appender) *Coordinator {
	return &Coordinator{
		transcriber: transcriber,
		translator:  translator,
		store:       store,
	}
}

// Ingest enriches and persists one inbound message. Transcription,
// configuration, and storage failures propagate with nothing persisted;
// translation failures surface only as marked text on the stored entry.
func (c *Coordinator) Ingest(ctx context.Context, draft Draft) (*conversation.Entry, error) {
	originalText := draft.Text

	switch draft.Kind {
	case conversation.InputText:
		// Nothing to resolve
	case conversation.InputAudio:
		if draft.AudioURL == "" {
			return nil, fmt.Errorf("audio message has no audio reference")
		}

		text, err := c.transcriber.Transcribe(ctx, draft.AudioURL, draft.Language)
		if err != nil {
			return nil, err
		}
		originalText = text
	default:
		return nil, fmt.Errorf("invalid message type %q", draft.Kind)
	}

	translatedText := c.translator.Translate(ctx, originalText, draft.Language, draft.TargetLanguage)

	return c.store.Append(ctx, conversation.Draft{
		ConversationID: draft.ConversationID,
		Role:           draft.Role,
		OriginalText:   originalText,
		TranslatedText: translatedText,
		Language:       draft.Language,
		TargetLanguage: draft.TargetLanguage,
		Kind:           draft.Kind,
		AudioURL:       draft.AudioURL,
	})
}
