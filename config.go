package rudimedia

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// SiteConfig holds all configuration for the site, loaded from environment
// variables.
type SiteConfig struct {
	Name        string `env:"SITE_NAME" envDefault:"Rudi-Media"`
	URL         string `env:"SITE_URL" envDefault:"http://localhost:3000"`
	Description string `env:"SITE_DESCRIPTION" envDefault:"Professionelles Digital Marketing für mehr Sichtbarkeit, Kunden und Umsatz."`
	Author      string `env:"SITE_AUTHOR" envDefault:"Arjanit Rudi"`

	Addr string `env:"ADDR" envDefault:":3000"`

	// BackendURL is the base URL of the content backend, without /api.
	BackendURL     string        `env:"BACKEND_URL,required"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s"`

	SessionSecret string `env:"SESSION_SECRET,required"`
	CookieSecure  bool   `env:"COOKIE_SECURE" envDefault:"false"`

	AnalyticsEnabled      bool   `env:"ANALYTICS_ENABLED" envDefault:"true"`
	AnalyticsDatabasePath string `env:"ANALYTICS_DB_PATH" envDefault:"data/analytics.db"`
}

// LoadConfig parses SiteConfig from the environment.
func LoadConfig() (SiteConfig, error) {
	var cfg SiteConfig
	if err := env.Parse(&cfg); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance before
// the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
