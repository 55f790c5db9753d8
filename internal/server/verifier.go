package server

import (
	"context"

	"github.com/resumate/resumate/internal/config"
	"github.com/resumate/resumate/internal/oidc"
	"github.com/resumate/resumate/internal/tokens"
	"github.com/resumate/resumate/pkg/logger"
	"github.com/resumate/resumate/pkg/middleware"
)

// SelectVerifier picks the first configured verifier: OIDC, then the shared
// HMAC secret, then (integration only) unsigned tokens. It returns nil when
// none is available.
func SelectVerifier(ctx context.Context, cfg config.AuthConfig) (middleware.Verifier, string) {
	if cfg.OIDCIssuer != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
		if err == nil {
			return ver, "oidc"
		}
		logger.Warnf("failed to initialize OIDC verifier: %v", err)
	}
	if cfg.JWTSecret != "" {
		return tokens.NewHMACVerifier(cfg.JWTSecret), "hmac"
	}
	if cfg.AllowInsecure {
		logger.Warn("enabling insecure token verifier (integration mode)")
		return oidc.NewInsecureVerifier(), "insecure"
	}
	return nil, "none"
}
