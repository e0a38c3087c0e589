package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akdamba/portal-backend/internal/http/authcookie"
	"github.com/akdamba/portal-backend/internal/pkg/ctxutil"
	"github.com/akdamba/portal-backend/internal/pkg/logger"
	"github.com/akdamba/portal-backend/internal/services"
)

// SessionGate guards the member area. For requests under the protected
// prefix it resolves the session cookie pair against the identity API and
// either populates the request context with the member profile, lets the
// request through anonymously (public routes), or redirects to login.
type SessionGate struct {
	log     *logger.Logger
	auth    services.AuthService
	cookies authcookie.Settings

	prefix    string
	loginPath string
	// public: inside the prefix but reachable without a session (the login
	// page). bypass: prerendered routes that must not touch cookies at all.
	public map[string]struct{}
	bypass map[string]struct{}
}

type SessionGateConfig struct {
	Prefix      string
	LoginPath   string
	PublicPaths []string
	BypassPaths []string
	Cookies     authcookie.Settings
}

func NewSessionGate(log *logger.Logger, auth services.AuthService, cfg SessionGateConfig) *SessionGate {
	public := make(map[string]struct{}, len(cfg.PublicPaths))
	for _, p := range cfg.PublicPaths {
		public[p] = struct{}{}
	}
	bypass := make(map[string]struct{}, len(cfg.BypassPaths))
	for _, p := range cfg.BypassPaths {
		bypass[p] = struct{}{}
	}
	return &SessionGate{
		log:       log.With("Middleware", "SessionGate"),
		auth:      auth,
		cookies:   cfg.Cookies,
		prefix:    cfg.Prefix,
		loginPath: cfg.LoginPath,
		public:    public,
		bypass:    bypass,
	}
}

func (g *SessionGate) Validate() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if !strings.HasPrefix(path, g.prefix) {
			c.Next()
			return
		}
		if _, ok := g.bypass[path]; ok {
			c.Next()
			return
		}

		_, isPublic := g.public[path]
		token, userID := authcookie.Read(c)

		if token == "" || userID == "" {
			if !isPublic {
				g.redirectToLogin(c)
				return
			}
			c.Next()
			return
		}

		farmer, err := g.auth.Validate(c.Request.Context(), userID, token)
		if err != nil {
			// Invalid, expired, or unverifiable: the session is gone either
			// way. One validation attempt, no retries.
			g.log.Info("Session validation failed", "user_id", userID, "error", err.Error())
			authcookie.Clear(c, g.cookies)
			if !isPublic {
				g.redirectToLogin(c)
				return
			}
			c.Next()
			return
		}

		ctx := ctxutil.WithSessionData(c.Request.Context(), &ctxutil.SessionData{
			Token:  token,
			UserID: userID,
			Farmer: farmer,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (g *SessionGate) redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, g.loginPath)
	c.Abort()
}
