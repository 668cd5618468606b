package summary

import (
	"net/http"

	conversation_store "github.com/ethanbaker/carebridge/internal/stores/conversation"
	extractor "github.com/ethanbaker/carebridge/internal/summary"
	"github.com/ethanbaker/carebridge/pkg/sdk"
	"github.com/ethanbaker/carebridge/pkg/utils"
	"github.com/gin-gonic/gin"
)

// SummaryService pairs the shared conversation store with the extractor
type SummaryService struct {
	store     conversation_store.Store
	extractor *extractor.Extractor
}

var summaryService *SummaryService

// Init creates the summary service over the shared store
func Init(cfg *utils.Config, store conversation_store.Store) {
	summaryService = &SummaryService{
		store:     store,
		extractor: extractor.NewExtractor(cfg),
	}
}

// GenerateSummary handles POST requests to summarize a conversation
func GenerateSummary(c *gin.Context) {
	// Parse request body
	var req sdk.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err).AsGinResponse())
		return
	}

	// Read the full conversation in chronological order
	entries, err := summaryService.store.List(c.Request.Context(), req.ConversationID, conversation_store.DefaultListLimit)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to read conversation", err.Error()).AsGinResponse())
		return
	}

	// Summarize never fails; model errors degrade to the keyword path
	report := summaryService.extractor.Summarize(c.Request.Context(), entries)

	c.JSON(sdk.NewSuccessResponse("Summary generated successfully", toSDKReport(report)).AsGinResponse())
}

// toSDKReport converts a report to its API representation
func toSDKReport(report *extractor.Report) *sdk.SummaryReport {
	sections := make([]sdk.SummarySection, 0, len(report.Sections))
	for _, section := range report.Sections {
		sections = append(sections, sdk.SummarySection{
			Key:   section.Key,
			Label: section.Label,
			Lines: section.Lines,
		})
	}

	return &sdk.SummaryReport{
		Summary:      report.Summary,
		Sections:     sections,
		Source:       report.Source,
		MessageCount: report.MessageCount,
		GeneratedAt:  report.GeneratedAt,
	}
}
