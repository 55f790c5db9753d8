package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/resumate/resumate/internal/config"
	"github.com/resumate/resumate/internal/server"
	"github.com/resumate/resumate/pkg/logger"
)

func newServeCmd() *cobra.Command {
	var memory bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), memory)
		},
	}
	cmd.Flags().BoolVar(&memory, "memory", false, "Keep resumes in memory instead of MongoDB")
	return cmd
}

func runServe(ctx context.Context, memory bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	load := config.LoadConfig
	if memory {
		load = config.LoadConfigWithoutStore
	}
	cfg, err := load()
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	logger.SetService("resumate")
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v gemini=%v", cfg.MongoDB.URI != "", cfg.Redis.Enabled(), cfg.MinIO.Enabled(), cfg.LLM.APIKey != "")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.Build(ctx, cfg, memory)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
