package pdf

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/resumate/resumate/pkg/logger"
)

// Archive keeps a copy of an export and returns a link to it.
type Archive interface {
	Store(ctx context.Context, pdf []byte) (string, error)
}

// Handler serves POST /generate-pdf.
type Handler struct {
	renderer Renderer
	archive  Archive
}

// NewHandler wires the export route. archive may be nil.
func NewHandler(renderer Renderer, archive Archive) *Handler {
	return &Handler{renderer: renderer, archive: archive}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/generate-pdf", h.generate)
}

func (h *Handler) generate(c *gin.Context) {
	var req struct {
		HTML string `json:"html"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.HTML) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "HTML content missing."})
		return
	}

	out, err := h.renderer.Render(c.Request.Context(), req.HTML)
	if err != nil {
		logger.Errorf("generate-pdf: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF."})
		return
	}

	if h.archive != nil {
		// archiving is best effort and must not fail the download
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		link, aerr := h.archive.Store(ctx, out)
		cancel()
		if aerr != nil {
			logger.Warnf("generate-pdf: archive: %v", aerr)
		} else {
			c.Header("X-Export-URL", link)
		}
	}

	c.Header("Content-Disposition", "attachment; filename=resume.pdf")
	c.Data(http.StatusOK, "application/pdf", out)
}
