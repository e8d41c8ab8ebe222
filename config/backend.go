package config

import (
	"strings"
	"time"
)

// BackendConfig contains configuration for the FYP backend REST API that
// every portal request ultimately flows through.
type BackendConfig struct {
	// BaseURL is the backend API root, e.g. "http://localhost:5000".
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:5000"`

	// Timeout is the fixed request timeout applied to every backend call.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`

	// UserAgent identifies the portal to the backend.
	UserAgent string `env:"USER_AGENT" envDefault:"fyp-portal"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 30 * time.Second
	}
	if b.UserAgent == "" {
		b.UserAgent = "fyp-portal"
	}
}
