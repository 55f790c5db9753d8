package roadmap

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resumate/resumate/internal/apperr"
	"github.com/resumate/resumate/pkg/logger"
)

const (
	missingFieldsMessage = "Job description, resume, and duration are required."
	upstreamMessage      = "Failed to generate roadmap due to an internal or API error."
)

// RegisterRoutes mounts POST /api/generate-roadmap.
func RegisterRoutes(r gin.IRoutes, gen *Generator) {
	r.POST("/api/generate-roadmap", func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": missingFieldsMessage})
			return
		}
		res, err := gen.Generate(c.Request.Context(), req)
		if err != nil {
			if apperr.HTTPStatus(err) == http.StatusBadRequest {
				c.JSON(http.StatusBadRequest, gin.H{"error": missingFieldsMessage})
				return
			}
			logger.Errorf("generate-roadmap: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": upstreamMessage})
			return
		}
		c.JSON(http.StatusOK, res)
	})
}
