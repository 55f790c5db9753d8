package keywords

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resumate/resumate/internal/apperr"
	"github.com/resumate/resumate/pkg/logger"
)

const upstreamMessage = "Failed to extract keywords due to internal or API error."

// RegisterRoutes mounts POST /api/extract-keywords.
func RegisterRoutes(r gin.IRoutes, ex *Extractor) {
	r.POST("/api/extract-keywords", func(c *gin.Context) {
		var req struct {
			JD string `json:"jd"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Job description missing."})
			return
		}
		kws, err := ex.Extract(c.Request.Context(), req.JD)
		if err != nil {
			status := apperr.HTTPStatus(err)
			if status == http.StatusBadRequest {
				c.JSON(status, gin.H{"error": "Job description missing."})
				return
			}
			logger.Errorf("extract-keywords: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": upstreamMessage})
			return
		}
		c.JSON(http.StatusOK, gin.H{"keywords": kws})
	})
}
