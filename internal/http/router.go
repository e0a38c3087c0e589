package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/akdamba/portal-backend/internal/http/handlers"
	httpMW "github.com/akdamba/portal-backend/internal/http/middleware"
	"github.com/akdamba/portal-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler     *httpH.AuthHandler
	CallbackHandler *httpH.CallbackHandler
	ContentHandler  *httpH.ContentHandler
	PortalHandler   *httpH.PortalHandler
	HealthHandler   *httpH.HealthHandler

	SessionGate *httpMW.SessionGate

	CORSOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/auth/login", cfg.AuthHandler.Login)
			api.POST("/auth/logout", cfg.AuthHandler.Logout)
			api.GET("/auth/test", cfg.AuthHandler.Test)
		}
		if cfg.CallbackHandler != nil {
			api.POST("/callback", cfg.CallbackHandler.RequestCallback)
		}
		if cfg.ContentHandler != nil {
			api.GET("/content/settings", cfg.ContentHandler.SiteSettings)
			api.GET("/content/nyheder", cfg.ContentHandler.NewsList)
			api.GET("/content/nyheder/:slug", cfg.ContentHandler.NewsArticle)
			api.GET("/content/vidensbase/:slug", cfg.ContentHandler.Topic)
		}
	}

	// Member area. Every route passes the session gate; the gate itself
	// decides what is protected, public, or bypassed.
	if cfg.PortalHandler != nil {
		andelshavere := r.Group("/andelshavere")
		if cfg.SessionGate != nil {
			andelshavere.Use(cfg.SessionGate.Validate())
		}
		andelshavere.GET("", cfg.PortalHandler.Dashboard)
		andelshavere.GET("/nyheder", cfg.PortalHandler.NewsList)
		andelshavere.GET("/nyheder/:slug", cfg.PortalHandler.NewsArticle)
		andelshavere.GET("/login", cfg.PortalHandler.LoginPage)
		andelshavere.GET("/andele", cfg.PortalHandler.Andele)
	}

	return r
}
