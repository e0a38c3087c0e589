package app

import (
	"github.com/akdamba/portal-backend/internal/http/authcookie"
	httpMW "github.com/akdamba/portal-backend/internal/http/middleware"
	"github.com/akdamba/portal-backend/internal/pkg/logger"
)

type Middleware struct {
	SessionGate *httpMW.SessionGate
}

func wireMiddleware(log *logger.Logger, cfg Config, svcs Services) Middleware {
	gate := httpMW.NewSessionGate(log, svcs.Auth, httpMW.SessionGateConfig{
		Prefix:      cfg.ProtectedPrefix,
		LoginPath:   cfg.LoginPath,
		PublicPaths: cfg.PublicPaths,
		BypassPaths: cfg.BypassPaths,
		Cookies: authcookie.Settings{
			Secure: cfg.CookieSecure,
			MaxAge: cfg.CookieMaxAge,
		},
	})
	return Middleware{SessionGate: gate}
}
