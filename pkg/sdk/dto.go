package sdk

import (
	"encoding/json"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  api_types.StatusType `json:"status"`          // Status message
	Code    int                  `json:"code"`            // Status code
	Message string               `json:"message"`         // Human-readable message
	Data    T                    `json:"data,omitempty"`  // Optional data field for successful responses
	Error   any                  `json:"error,omitempty"` // Optional errors field for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin framework
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

// AsJSON converts the ApiResponse to a format suitable for JSON responses
func (r ApiResponse[T]) AsJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func NewSuccess(message string) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  api_types.StatusSuccess,
		Code:    200,
		Message: message,
	}
}

func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  api_types.StatusSuccess,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(code int, message string, err any) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  api_types.StatusError,
		Code:    code,
		Message: message,
		Error:   err,
	}
}

/** Requests */

// SendMessageRequest represents the request body for a text message
type SendMessageRequest struct {
	Text           string `json:"text" binding:"required"`
	Role           string `json:"role" binding:"required"`     // "doctor" or "patient"
	Language       string `json:"language" binding:"required"` // source language code
	TargetLanguage string `json:"target_language" binding:"required"`
	ConversationID string `json:"conversation_id"` // defaults server-side
}

// SearchRequest represents the request body for a history search
type SearchRequest struct {
	Query          string `json:"query" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

// SummaryRequest represents the request body for summary generation
type SummaryRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
}

/** Responses */

// Entry represents one persisted message within a conversation
type Entry struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	OriginalText   string    `json:"original_text"`
	TranslatedText string    `json:"translated_text"`
	Language       string    `json:"language"`
	TargetLanguage string    `json:"target_language"`
	MessageType    string    `json:"message_type"`
	AudioURL       string    `json:"audio_url,omitempty"`
}

// SendMessageResponse is returned after a text message is ingested
type SendMessageResponse struct {
	Message        Entry  `json:"message"`
	TranslatedText string `json:"translated_text"`
}

// AudioMessageResponse is returned after an audio message is ingested
type AudioMessageResponse struct {
	Message        Entry  `json:"message"`
	Transcription  string `json:"transcription"`
	TranslatedText string `json:"translated_text"`
	AudioURL       string `json:"audio_url"`
}

// HistoryResponse lists a conversation's entries in chronological order
type HistoryResponse struct {
	Messages []Entry `json:"messages"`
	Count    int     `json:"count"`
}

// SearchResult pairs a matched entry with a snippet of the matched text
type SearchResult struct {
	Message Entry  `json:"message"`
	Snippet string `json:"snippet"`
}

// SearchResponse lists search results newest-first
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// SummarySection is one named part of a summary report
type SummarySection struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Lines []string `json:"lines"`
}

// SummaryReport is the structured summary of a conversation
type SummaryReport struct {
	Summary      string           `json:"summary"`
	Sections     []SummarySection `json:"sections,omitempty"`
	Source       string           `json:"source"`
	MessageCount int              `json:"message_count"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

// HealthResponse reports which collaborators are configured
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// LanguagesResponse lists the supported language codes
type LanguagesResponse struct {
	Languages map[string]string `json:"languages"`
}
