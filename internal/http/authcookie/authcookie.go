// Package authcookie owns the member session cookie pair. Nothing else in
// the codebase reads or writes these cookies.
package authcookie

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	TokenCookie  = "akd_auth_token"
	UserIDCookie = "akd_user_id"

	// 7 days, matching the upstream token TTL the portal has always used.
	defaultMaxAge = 60 * 60 * 24 * 7
)

type Settings struct {
	Secure bool
	MaxAge int
}

func (s Settings) maxAge() int {
	if s.MaxAge > 0 {
		return s.MaxAge
	}
	return defaultMaxAge
}

func Set(c *gin.Context, s Settings, token, userID string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(TokenCookie, token, s.maxAge(), "/", "", s.Secure, true)
	c.SetCookie(UserIDCookie, userID, s.maxAge(), "/", "", s.Secure, true)
}

func Clear(c *gin.Context, s Settings) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(TokenCookie, "", -1, "/", "", s.Secure, true)
	c.SetCookie(UserIDCookie, "", -1, "/", "", s.Secure, true)
}

func Read(c *gin.Context) (token, userID string) {
	token, _ = c.Cookie(TokenCookie)
	userID, _ = c.Cookie(UserIDCookie)
	return token, userID
}
