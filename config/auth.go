package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModePassword authenticates email/password credentials against the
	// FYP backend's login endpoint.
	AuthModePassword AuthMode = "password"
	// AuthModeOIDC uses the institution's OIDC identity provider (SSO).
	AuthModeOIDC AuthMode = "oidc"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "password", "oidc":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, oidc)", v)
	}
}

// OIDCConfig contains OIDC/OAuth configuration for SSO login (Mode=oidc).
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines how users sign in.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// SessionTTL is how long a portal session stays valid without re-login.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// DisabledNoticeTTL bounds how long the one-shot "account disabled"
	// marker survives if the login page never consumes it.
	DisabledNoticeTTL time.Duration `env:"DISABLED_NOTICE_TTL" envDefault:"10m"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 12 * time.Hour
	}
	if a.DisabledNoticeTTL <= 0 {
		a.DisabledNoticeTTL = 10 * time.Minute
	}
}
