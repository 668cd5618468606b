package messages

import (
	"github.com/gin-gonic/gin"
)

// Register routes for the messages module
func RegisterRoutes(g *gin.RouterGroup) {
	// Supported language table for the frontend selector
	g.GET("/languages", GetLanguages)

	// Create base group for message routes
	group := g.Group("/messages")

	group.POST("/send", SendMessage)      // Ingest a text message
	group.POST("/audio", UploadAudio)     // Upload, transcribe, and ingest a recording
	group.GET("/history", GetHistory)     // Conversation history, oldest first
	group.POST("/search", SearchMessages) // Substring search, newest first
}
