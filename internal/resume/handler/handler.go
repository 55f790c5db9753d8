package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/resumate/resumate/internal/apperr"
	"github.com/resumate/resumate/internal/resume"
	"github.com/resumate/resumate/internal/resume/service"
	"github.com/resumate/resumate/pkg/logger"
	"github.com/resumate/resumate/pkg/middleware"
)

func owner(c *gin.Context) string { return c.GetString(middleware.OwnerKey) }

type createRequest struct {
	Title      string           `json:"title"`
	ResumeData *resume.Template `json:"resumeData"`
}

type updateRequest struct {
	ResumeData *resume.Template `json:"resumeData"`
}

// RegisterResumeRoutes mounts the resume CRUD API on r. Authentication is the
// caller's responsibility: r must already run the auth middleware.
func RegisterResumeRoutes(r gin.IRoutes, svc *service.Service) {
	r.GET("/api/resumes", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), owner(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.POST("/api/resumes", func(c *gin.Context) {
		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}
		doc, created, err := svc.Create(c.Request.Context(), owner(c), req.Title, req.ResumeData)
		if err != nil {
			writeError(c, err)
			return
		}
		setETag(c, doc)
		if created {
			c.JSON(http.StatusCreated, gin.H{"message": "Resume created successfully", "resume": doc})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Resume updated successfully", "resume": doc})
	})

	r.GET("/api/resumes/:id", func(c *gin.Context) {
		doc, err := svc.Get(c.Request.Context(), owner(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		setETag(c, doc)
		c.JSON(http.StatusOK, doc)
	})

	r.PUT("/api/resumes/:id", func(c *gin.Context) {
		expected, err := parseIfMatch(c.GetHeader("If-Match"))
		if err != nil {
			writeError(c, err)
			return
		}
		var req updateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}
		doc, err := svc.Update(c.Request.Context(), owner(c), c.Param("id"), req.ResumeData, expected)
		if err != nil {
			writeError(c, err)
			return
		}
		setETag(c, doc)
		c.JSON(http.StatusOK, gin.H{"message": "Resume updated", "resume": doc})
	})

	r.DELETE("/api/resumes/:id", func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), owner(c), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
	})
}

func setETag(c *gin.Context, doc *resume.Document) {
	c.Header("ETag", fmt.Sprintf("%q", strconv.FormatInt(doc.Version, 10)))
}

// parseIfMatch accepts `"3"`, `W/"3"` or a bare 3. An absent header means
// last-writer-wins.
func parseIfMatch(h string) (*int64, error) {
	h = strings.TrimSpace(h)
	if h == "" || h == "*" {
		return nil, nil
	}
	h = strings.TrimPrefix(h, "W/")
	h = strings.Trim(h, `"`)
	v, err := strconv.ParseInt(h, 10, 64)
	if err != nil || v < 1 {
		return nil, apperr.Invalid("If-Match", "must be a resume version")
	}
	return &v, nil
}

func writeError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	var ce *apperr.ConflictError
	if errors.As(err, &ce) {
		c.Header("ETag", fmt.Sprintf("%q", strconv.FormatInt(ce.Actual, 10)))
	}
	var msg string
	switch status {
	case http.StatusNotFound:
		msg = "Resume not found"
	case http.StatusInternalServerError:
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		msg = "Server error"
	default:
		msg = apperr.PublicMessage(err, "Server error")
	}
	c.JSON(status, gin.H{"message": msg})
}
