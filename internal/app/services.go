package app

import (
	"github.com/akdamba/portal-backend/internal/pkg/logger"
	"github.com/akdamba/portal-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Content  services.ContentService
	Callback services.CallbackService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients) Services {
	log.Info("Wiring services...")

	auth := services.NewAuthService(log, clients.Identity)
	content := services.NewContentService(log, clients.CMS, clients.Cache, cfg.ContentCacheTTL)
	callback := services.NewCallbackService(log, content, clients.Email, cfg.CallbackFallbackEmail)

	return Services{
		Auth:     auth,
		Content:  content,
		Callback: callback,
	}
}
