// Package server assembles the HTTP API from the domain packages.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/resumate/resumate/handlers"
	"github.com/resumate/resumate/internal/config"
	"github.com/resumate/resumate/internal/keywords"
	"github.com/resumate/resumate/internal/pdf"
	"github.com/resumate/resumate/internal/resume/handler"
	"github.com/resumate/resumate/internal/resume/service"
	"github.com/resumate/resumate/internal/roadmap"
	"github.com/resumate/resumate/internal/users"
	"github.com/resumate/resumate/pkg/metrics"
	"github.com/resumate/resumate/pkg/middleware"
)

var startTime = time.Now()

var registerMetrics sync.Once

// Check is one readiness dependency.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Deps is everything the router needs. Nil Verifier rejects every
// authenticated request; nil Redis selects the in-memory rate limiter.
type Deps struct {
	Server    config.ServerConfig
	RateLimit config.RateLimitConfig
	Resumes   *service.Service
	Users     *users.Service
	Keywords  *keywords.Extractor
	Roadmap   *roadmap.Generator
	PDF       *pdf.Handler
	Verifier  middleware.Verifier
	Redis     *redis.Client
	Checks    []Check
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.CORS(), gin.Logger(), gin.Recovery(), middleware.BodyLimit(d.Server.MaxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readiness(d))

	registerMetrics.Do(func() { metrics.RegisterCollectors(prometheus.DefaultRegisterer) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	api := r.Group("/", middleware.AuthMiddleware(d.Verifier))
	if d.RateLimit.Enabled {
		// after auth so the bucket is per user
		if d.RateLimit.UseRedis && d.Redis != nil {
			api.Use(middleware.RedisRateLimitMiddleware(d.Redis, d.RateLimit.RPS, d.RateLimit.Burst, d.RateLimit.Window))
		} else {
			api.Use(middleware.RateLimitMiddleware(d.RateLimit.RPS, d.RateLimit.Burst))
		}
	}

	handler.RegisterResumeRoutes(api, d.Resumes)
	if d.Users != nil {
		users.RegisterRoutes(api, d.Users)
	}
	if d.Keywords != nil {
		keywords.RegisterRoutes(api, d.Keywords)
	}
	if d.Roadmap != nil {
		roadmap.RegisterRoutes(api, d.Roadmap)
	}
	if d.PDF != nil {
		d.PDF.Register(api)
	}
	return r
}

// readiness returns 200 only when every dependency answers.
func readiness(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ready := true
		deps := map[string]bool{"auth": d.Verifier != nil}
		if d.Verifier == nil {
			ready = false
		}
		for _, chk := range d.Checks {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			err := chk.Fn(ctx)
			cancel()
			deps[chk.Name] = err == nil
			if err != nil {
				ready = false
			}
		}

		uptime := time.Since(startTime).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	}
}
