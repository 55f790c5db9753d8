// Package users records a profile for every authenticated subject.
package users

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resumate/resumate/internal/apperr"
	"github.com/resumate/resumate/pkg/logger"
	"github.com/resumate/resumate/pkg/middleware"
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// UpsertFromClaims creates or refreshes the user named by the token claims.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*User, error) {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if sub == "" {
		return nil, &apperr.AuthError{Reason: "token has no subject"}
	}
	return s.repo.UpsertBySub(ctx, &User{Sub: sub, Email: email, Name: name})
}

func (s *Service) GetBySub(ctx context.Context, sub string) (*User, error) {
	return s.repo.GetBySub(ctx, sub)
}

// RegisterRoutes mounts GET /api/me behind the auth middleware.
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	r.GET("/api/me", func(c *gin.Context) {
		claims, _ := c.Get(middleware.ClaimsKey)
		cm, _ := claims.(map[string]interface{})
		u, err := svc.UpsertFromClaims(c.Request.Context(), cm)
		if err != nil {
			status := apperr.HTTPStatus(err)
			if status == http.StatusUnauthorized {
				c.JSON(status, gin.H{"message": "Unauthorized"})
				return
			}
			logger.Errorf("me: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, u)
	})
}
