package messages

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/ethanbaker/carebridge/internal/faults"
	"github.com/ethanbaker/carebridge/internal/ingest"
	conversation_store "github.com/ethanbaker/carebridge/internal/stores/conversation"
	"github.com/ethanbaker/carebridge/internal/translation"
	"github.com/ethanbaker/carebridge/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// SendMessage handles POST requests to ingest a text message
func SendMessage(c *gin.Context) {
	// Parse request body
	var req sdk.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err).AsGinResponse())
		return
	}

	role, err := conversation_store.ParseRole(req.Role)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid role", err.Error()).AsGinResponse())
		return
	}

	// Run the message through the enrichment pipeline
	entry, err := messageService.coordinator.Ingest(c.Request.Context(), ingest.Draft{
		ConversationID: req.ConversationID,
		Role:           role,
		Kind:           conversation_store.InputText,
		Text:           req.Text,
		Language:       req.Language,
		TargetLanguage: req.TargetLanguage,
	})
	if err != nil {
		code, message := statusForError(err)
		c.JSON(sdk.NewErrorResponse(code, message, err.Error()).AsGinResponse())
		return
	}

	resp := &sdk.SendMessageResponse{
		Message:        toSDKEntry(entry),
		TranslatedText: entry.TranslatedText,
	}
	c.JSON(sdk.NewSuccessResponse("Message sent successfully", resp).AsGinResponse())
}

// UploadAudio handles POST requests to store, transcribe, and ingest a
// recorded message
func UploadAudio(c *gin.Context) {
	if messageService.uploader == nil {
		err := &faults.ConfigurationError{Service: "Cloudinary", Key: "CLOUDINARY_CLOUD_NAME"}
		c.JSON(sdk.NewErrorResponse(http.StatusServiceUnavailable, "Audio uploads are not configured", err.Error()).AsGinResponse())
		return
	}

	// Parse form fields
	role, err := conversation_store.ParseRole(c.PostForm("role"))
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid role", err.Error()).AsGinResponse())
		return
	}

	language := c.PostForm("language")
	targetLanguage := c.PostForm("target_language")
	if language == "" || targetLanguage == "" {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Missing language or target_language", nil).AsGinResponse())
		return
	}

	// Read the uploaded audio
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Missing audio file", err.Error()).AsGinResponse())
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not read audio file", err.Error()).AsGinResponse())
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not read audio file", err.Error()).AsGinResponse())
		return
	}

	// Store the blob and run the reference through the pipeline
	audioURL, err := messageService.uploader.UploadAudio(c.Request.Context(), audio, header.Filename)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadGateway, "Failed to upload audio", err.Error()).AsGinResponse())
		return
	}

	entry, err := messageService.coordinator.Ingest(c.Request.Context(), ingest.Draft{
		ConversationID: c.PostForm("conversation_id"),
		Role:           role,
		Kind:           conversation_store.InputAudio,
		AudioURL:       audioURL,
		Language:       language,
		TargetLanguage: targetLanguage,
	})
	if err != nil {
		code, message := statusForError(err)
		c.JSON(sdk.NewErrorResponse(code, message, err.Error()).AsGinResponse())
		return
	}

	resp := &sdk.AudioMessageResponse{
		Message:        toSDKEntry(entry),
		Transcription:  entry.OriginalText,
		TranslatedText: entry.TranslatedText,
		AudioURL:       audioURL,
	}
	c.JSON(sdk.NewSuccessResponse("Audio message sent successfully", resp).AsGinResponse())
}

// GetHistory handles GET requests for a conversation's entries in
// chronological order
func GetHistory(c *gin.Context) {
	conversationID := c.Query("conversation_id")

	limit := conversation_store.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid limit", raw).AsGinResponse())
			return
		}
		limit = parsed
	}

	entries, err := messageService.store.List(c.Request.Context(), conversationID, limit)
	if err != nil {
		code, message := statusForError(err)
		c.JSON(sdk.NewErrorResponse(code, message, err.Error()).AsGinResponse())
		return
	}

	resp := &sdk.HistoryResponse{Messages: toSDKEntries(entries), Count: len(entries)}
	c.JSON(sdk.NewSuccessResponse("History retrieved successfully", resp).AsGinResponse())
}

// SearchMessages handles POST requests to search conversation history
func SearchMessages(c *gin.Context) {
	// Parse request body
	var req sdk.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err).AsGinResponse())
		return
	}

	matches, err := messageService.store.Search(c.Request.Context(), req.Query, req.ConversationID)
	if err != nil {
		code, message := statusForError(err)
		c.JSON(sdk.NewErrorResponse(code, message, err.Error()).AsGinResponse())
		return
	}

	results := make([]sdk.SearchResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, sdk.SearchResult{
			Message: toSDKEntry(match.Entry),
			Snippet: match.Snippet,
		})
	}

	resp := &sdk.SearchResponse{Results: results, Count: len(results)}
	c.JSON(sdk.NewSuccessResponse("Search completed successfully", resp).AsGinResponse())
}

// GetLanguages handles GET requests for the supported language table
func GetLanguages(c *gin.Context) {
	resp := &sdk.LanguagesResponse{Languages: translation.SupportedLanguages()}
	c.JSON(sdk.NewSuccessResponse("Languages retrieved successfully", resp).AsGinResponse())
}

// statusForError maps pipeline faults to HTTP statuses
func statusForError(err error) (int, string) {
	var confErr *faults.ConfigurationError
	var transcriptionErr *faults.TranscriptionError
	var timeoutErr *faults.TranscriptionTimeout
	var storageErr *faults.StorageError

	switch {
	case errors.As(err, &confErr):
		return http.StatusServiceUnavailable, "A required service is not configured"
	case errors.As(err, &transcriptionErr):
		return http.StatusBadGateway, "Transcription failed"
	case errors.As(err, &timeoutErr):
		return http.StatusBadGateway, "Transcription timed out"
	case errors.As(err, &storageErr):
		return http.StatusInternalServerError, "Failed to access message storage"
	}
	return http.StatusInternalServerError, "Internal server error"
}

// toSDKEntry converts a stored entry to its API representation
func toSDKEntry(entry *conversation_store.Entry) sdk.Entry {
	return sdk.Entry{
		ID:             entry.ID.String(),
		CreatedAt:      entry.CreatedAt,
		ConversationID: entry.ConversationID,
		Role:           string(entry.Role),
		OriginalText:   entry.OriginalText,
		TranslatedText: entry.TranslatedText,
		Language:       entry.Language,
		TargetLanguage: entry.TargetLanguage,
		MessageType:    string(entry.Kind),
		AudioURL:       entry.AudioURL,
	}
}

func toSDKEntries(entries []*conversation_store.Entry) []sdk.Entry {
	out := make([]sdk.Entry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toSDKEntry(entry))
	}
	return out
}
