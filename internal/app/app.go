package app

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	apphttp "github.com/akdamba/portal-backend/internal/http"
	"github.com/akdamba/portal-backend/internal/pkg/envutil"
	"github.com/akdamba/portal-backend/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Services Services
	Server   *apphttp.Server
}

func New() (*App, error) {
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig(log)
	if strings.HasPrefix(cfg.Mode, "prod") {
		gin.SetMode(gin.ReleaseMode)
	}

	clients, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	svcs := wireServices(log, cfg, clients)
	handlers := wireHandlers(cfg, svcs)
	mw := wireMiddleware(log, cfg, svcs)

	server := apphttp.NewServer(apphttp.RouterConfig{
		Log:             log,
		AuthHandler:     handlers.Auth,
		CallbackHandler: handlers.Callback,
		ContentHandler:  handlers.Content,
		PortalHandler:   handlers.Portal,
		HealthHandler:   handlers.Health,
		SessionGate:     mw.SessionGate,
		CORSOrigins:     cfg.CORSOrigins,
	})

	return &App{
		Log:      log,
		Cfg:      cfg,
		Clients:  clients,
		Services: svcs,
		Server:   server,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Starting HTTP server", "port", a.Cfg.Port)
	return a.Server.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Clients.Cache != nil {
		_ = a.Clients.Cache.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
