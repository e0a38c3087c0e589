package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akdamba/portal-backend/internal/http/authcookie"
	"github.com/akdamba/portal-backend/internal/http/response"
	"github.com/akdamba/portal-backend/internal/services"
)

type AuthHandler struct {
	auth    services.AuthService
	cookies authcookie.Settings
}

func NewAuthHandler(auth services.AuthService, cookies authcookie.Settings) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies}
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", services.MsgMissingCredentials)
		return
	}

	res, apiErr := ah.auth.Login(c.Request.Context(), req.Username, req.Password)
	if apiErr != nil {
		response.RespondAPIError(c, apiErr)
		return
	}

	authcookie.Set(c, ah.cookies, res.Token, res.UserID)
	// Never echo anything from the credential exchange back to the client.
	response.RespondOK(c, gin.H{"success": true})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	token, _ := authcookie.Read(c)
	ah.auth.Logout(c.Request.Context(), token)
	authcookie.Clear(c, ah.cookies)
	response.RespondOK(c, gin.H{"success": true})
}

// Test is an operational self-check: is the identity API reachable? A 401
// from upstream means yes (the throwaway credentials are supposed to be
// rejected).
func (ah *AuthHandler) Test(c *gin.Context) {
	status, err := ah.auth.Probe(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "connection_failed", services.MsgNoConnection)
		return
	}
	response.RespondOK(c, gin.H{
		"configured":     true,
		"upstreamStatus": status,
		"message":        "Connection test completed. A 401 is expected for invalid credentials, which means the API is reachable.",
	})
}
