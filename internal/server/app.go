package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/resumate/resumate/internal/config"
	"github.com/resumate/resumate/internal/database"
	"github.com/resumate/resumate/internal/keywords"
	"github.com/resumate/resumate/internal/llm"
	"github.com/resumate/resumate/internal/lock"
	"github.com/resumate/resumate/internal/pdf"
	"github.com/resumate/resumate/internal/resume/repository"
	"github.com/resumate/resumate/internal/resume/service"
	"github.com/resumate/resumate/internal/roadmap"
	"github.com/resumate/resumate/internal/storage"
	"github.com/resumate/resumate/internal/users"
	"github.com/resumate/resumate/pkg/logger"
)

// lockTTL bounds how long a crashed writer can hold a resume lock.
const lockTTL = 15 * time.Second

// App is a wired server plus the resources it must release on shutdown.
type App struct {
	Router  *gin.Engine
	cfg     *config.Config
	closers []func(context.Context) error
}

// Build connects every configured dependency. With memory set, resumes and
// users live in process and MongoDB is not contacted.
func Build(ctx context.Context, cfg *config.Config, memory bool) (*App, error) {
	app := &App{cfg: cfg}
	deps := Deps{Server: cfg.Server, RateLimit: cfg.RateLimit}

	var locker lock.Locker
	if cfg.Redis.Enabled() {
		rc := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rc.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", cfg.Redis.Addr(), err)
			_ = rc.Close()
		} else {
			logger.Infof("connected to Redis at %s", cfg.Redis.Addr())
			deps.Redis = rc
			locker = lock.NewRedisLocker(rc, "resumate:lock:", lockTTL)
			deps.Checks = append(deps.Checks, Check{Name: "redis", Fn: func(ctx context.Context) error { return rc.Ping(ctx).Err() }})
			app.onClose(func(context.Context) error { return rc.Close() })
		}
	}

	if memory {
		logger.Warnf("using in-memory storage; data is lost on exit")
		deps.Resumes = service.New(repository.NewMemoryRepo(), locker)
		deps.Users = users.NewService(users.NewMemoryUserRepository())
	} else {
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if err != nil {
			app.Close(ctx)
			return nil, err
		}
		app.onClose(client.Disconnect)
		db := client.Database(cfg.MongoDB.Database)
		deps.Resumes = service.New(repository.NewMongoRepo(ctx, db.Collection(repository.Collection)), locker)
		deps.Users = users.NewService(users.NewMongoUserRepository(ctx, db.Collection(users.Collection)))
		deps.Checks = append(deps.Checks, Check{Name: "mongodb", Fn: func(ctx context.Context) error { return database.Ping(ctx, client) }})
		logger.Infof("connected to MongoDB database %s", cfg.MongoDB.Database)
	}

	gen, err := llm.New(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("llm client: %w", err)
	}
	app.onClose(func(context.Context) error { return gen.Close() })
	deps.Keywords = keywords.NewExtractor(gen)
	deps.Roadmap = roadmap.NewGenerator(gen, cfg.LLM.Timeout)

	var archive pdf.Archive
	if cfg.MinIO.Enabled() {
		a, err := storage.NewMinIOArchive(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("PDF archive disabled: %v", err)
		} else {
			archive = a
			deps.Checks = append(deps.Checks, Check{Name: "minio", Fn: a.Ping})
		}
	}
	deps.PDF = pdf.NewHandler(pdf.NewChromeRenderer(cfg.PDF.ChromePath, cfg.PDF.Timeout, cfg.PDF.MaxConcurrent), archive)

	var kind string
	deps.Verifier, kind = SelectVerifier(ctx, cfg.Auth)
	logger.Infof("token verifier: %s", kind)

	app.Router = NewRouter(deps)
	return app, nil
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", a.cfg.Server.Host, a.cfg.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("starting resumate API on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		a.Close(context.Background())
		return err
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	a.Close(shutdownCtx)
	return err
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warnf("shutdown: %v", err)
		}
	}
	a.closers = nil
}
