package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akdamba/portal-backend/internal/http/response"
	"github.com/akdamba/portal-backend/internal/pkg/ctxutil"
	"github.com/akdamba/portal-backend/internal/services"
)

// PortalHandler serves the member-area pages. The session gate has already
// run for every route here; on protected routes the session is guaranteed,
// on the login route it is optional.
type PortalHandler struct {
	content services.ContentService
}

func NewPortalHandler(content services.ContentService) *PortalHandler {
	return &PortalHandler{content: content}
}

func (h *PortalHandler) Dashboard(c *gin.Context) {
	sd := ctxutil.GetSessionData(c.Request.Context())
	if sd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", "Du skal være logget ind.")
		return
	}
	dash, err := h.content.Dashboard(c.Request.Context())
	if err != nil {
		respondContentError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"user":      sd.Farmer,
		"dashboard": dash,
	})
}

func (h *PortalHandler) NewsList(c *gin.Context) {
	list, err := h.content.NewsList(c.Request.Context())
	if err != nil {
		respondContentError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"articles": list})
}

func (h *PortalHandler) NewsArticle(c *gin.Context) {
	article, err := h.content.NewsArticle(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondContentError(c, err)
		return
	}
	response.RespondOK(c, article)
}

// LoginPage is public within the member area: it renders for anonymous
// visitors, and an already validated session just means the frontend can
// forward straight to the dashboard.
func (h *PortalHandler) LoginPage(c *gin.Context) {
	settings, err := h.content.SiteSettings(c.Request.Context())
	if err != nil {
		respondContentError(c, err)
		return
	}
	payload := gin.H{
		"title":       settings.AndelshavereTitle,
		"description": settings.AndelshavereDescription,
	}
	if sd := ctxutil.GetSessionData(c.Request.Context()); sd != nil {
		payload["authenticated"] = true
	}
	response.RespondOK(c, payload)
}

// Andele is the prerendered public page inside the member prefix; the gate
// skips it entirely.
func (h *PortalHandler) Andele(c *gin.Context) {
	topic, err := h.content.Topic(c.Request.Context(), "andele")
	if err != nil {
		respondContentError(c, err)
		return
	}
	response.RespondOK(c, topic)
}
