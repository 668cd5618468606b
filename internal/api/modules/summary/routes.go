package summary

import (
	"github.com/gin-gonic/gin"
)

// Register routes for the summary module
func RegisterRoutes(g *gin.RouterGroup) {
	group := g.Group("/summary")

	group.POST("/generate", GenerateSummary)
}
