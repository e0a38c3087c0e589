package app

import (
	"strings"
	"time"

	"github.com/akdamba/portal-backend/internal/pkg/envutil"
	"github.com/akdamba/portal-backend/internal/pkg/logger"
)

// Config is the cross-cutting runtime configuration, loaded once at
// startup. Client-specific settings (API keys, endpoints) live with their
// clients; missing required values fail the boot instead of surfacing as
// errors deep inside a request.
type Config struct {
	Mode string
	Port string

	CookieSecure bool
	CookieMaxAge int

	ProtectedPrefix string
	LoginPath       string
	PublicPaths     []string
	BypassPaths     []string

	CORSOrigins []string

	CallbackFallbackEmail string
	ContentCacheTTL       time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	mode := envutil.String("APP_MODE", "development")
	isProd := mode == "prod" || mode == "production"

	cfg := Config{
		Mode: mode,
		Port: envutil.String("PORT", "8080"),

		CookieSecure: envutil.Bool("COOKIE_SECURE", isProd),
		CookieMaxAge: envutil.Int("SESSION_COOKIE_MAX_AGE", 0),

		ProtectedPrefix: "/andelshavere",
		LoginPath:       "/andelshavere/login",
		PublicPaths:     []string{"/andelshavere/login"},
		BypassPaths:     []string{"/andelshavere/andele"},

		CORSOrigins: splitCSV(envutil.String("CORS_ALLOWED_ORIGINS", "")),

		CallbackFallbackEmail: envutil.String("CALLBACK_FALLBACK_EMAIL", ""),
		ContentCacheTTL:       time.Duration(envutil.Int("CONTENT_CACHE_TTL_SECONDS", 300)) * time.Second,
	}

	log.Info("Configuration loaded",
		"mode", cfg.Mode,
		"port", cfg.Port,
		"cookie_secure", cfg.CookieSecure,
		"cors_origins", len(cfg.CORSOrigins),
	)
	return cfg
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
