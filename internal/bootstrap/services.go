package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/campuskit/fyp-portal/config"
	"github.com/campuskit/fyp-portal/internal/adapters/oidc"
	redisadapter "github.com/campuskit/fyp-portal/internal/adapters/redis"
	"github.com/campuskit/fyp-portal/internal/client"
	httpx "github.com/campuskit/fyp-portal/internal/http"
	"github.com/campuskit/fyp-portal/internal/ports"
	"github.com/campuskit/fyp-portal/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth    *service.AuthService
	Router  *service.DashboardRouter
	Backend *client.Client
	Notices ports.DisabledNoticeStore
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildServices wires the session stores, backend client, and services.
func BuildServices(deps ServiceDeps) (ServiceContainer, error) {
	cfg := deps.Config
	if cfg == nil {
		return ServiceContainer{}, fmt.Errorf("config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sessions := redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, cfg.Redis.KeyPrefix+"session:")
	notices := redisadapter.NewDisabledNoticeStore(deps.RedisClient, cfg.Auth.DisabledNoticeTTL)

	// The backend client carries one navigator for its lifetime; the
	// per-request recorder is looked up from the request context.
	backend, err := client.New(client.Config{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.Timeout,
		UserAgent: cfg.Backend.UserAgent,
		Sessions:  sessions,
		Notices:   notices,
		Navigator: httpx.ContextNavigator{},
		Logger:    logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build backend client: %w", err)
	}

	provider, err := buildIdentityProvider(cfg.Auth, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	auth := service.NewAuthService(service.AuthServiceOptions{
		Backend:    backend,
		Sessions:   sessions,
		Provider:   provider,
		SessionTTL: cfg.Auth.SessionTTL,
	})

	router := service.NewDashboardRouter(service.DashboardRouterOptions{
		Projects: backend,
		Logger:   logger,
	})

	return ServiceContainer{
		Auth:    auth,
		Router:  router,
		Backend: backend,
		Notices: notices,
	}, nil
}

// buildIdentityProvider constructs the OIDC provider when SSO mode is
// configured. Password mode runs without one.
func buildIdentityProvider(cfg config.AuthConfig, logger *slog.Logger) (ports.IdentityProvider, error) {
	if cfg.Mode != config.AuthModeOIDC {
		return nil, nil
	}

	provider, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     cfg.OIDC.ClientID,
		ClientSecret: cfg.OIDC.ClientSecret,
		RedirectURL:  cfg.OIDC.RedirectURL,
		Scope:        cfg.OIDC.Scope,
		DiscoveryURL: cfg.OIDC.DiscoveryURL,
	})
	if err != nil {
		return nil, fmt.Errorf("build OIDC provider: %w", err)
	}

	logger.Info("SSO login enabled", "client_id", cfg.OIDC.ClientID)
	return provider, nil
}
