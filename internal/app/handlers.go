package app

import (
	"github.com/akdamba/portal-backend/internal/http/authcookie"
	httpH "github.com/akdamba/portal-backend/internal/http/handlers"
)

type Handlers struct {
	Auth     *httpH.AuthHandler
	Callback *httpH.CallbackHandler
	Content  *httpH.ContentHandler
	Portal   *httpH.PortalHandler
	Health   *httpH.HealthHandler
}

func wireHandlers(cfg Config, svcs Services) Handlers {
	cookies := authcookie.Settings{
		Secure: cfg.CookieSecure,
		MaxAge: cfg.CookieMaxAge,
	}
	return Handlers{
		Auth:     httpH.NewAuthHandler(svcs.Auth, cookies),
		Callback: httpH.NewCallbackHandler(svcs.Callback),
		Content:  httpH.NewContentHandler(svcs.Content),
		Portal:   httpH.NewPortalHandler(svcs.Content),
		Health:   httpH.NewHealthHandler(),
	}
}
