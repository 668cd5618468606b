package health

import (
	"time"

	"github.com/ethanbaker/carebridge/pkg/sdk"
	"github.com/ethanbaker/carebridge/pkg/utils"
	"github.com/gin-gonic/gin"
)

var config *utils.Config

// Init stores the config so the status report can inspect credentials
func Init(cfg *utils.Config) {
	config = cfg
}

// Return status of the API and its collaborators
func getStatus(c *gin.Context) {
	services := map[string]string{
		"database":    configured(config.Has("MYSQL_DATABASE"), "connected", "in-memory"),
		"translation": configured(config.Has("AZURE_TRANSLATOR_KEY"), "configured", "missing API key"),
		"speech":      configured(config.Has("ASSEMBLYAI_API_KEY"), "configured", "missing API key"),
		"storage":     configured(config.Has("CLOUDINARY_CLOUD_NAME"), "configured", "not configured"),
		"summary":     configured(config.Has("OPENAI_API_KEY"), "configured", "fallback only"),
	}

	resp := &sdk.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Services:  services,
	}
	c.JSON(sdk.NewSuccessResponse("OK", resp).AsGinResponse())
}

func configured(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
