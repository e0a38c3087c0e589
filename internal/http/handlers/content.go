package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akdamba/portal-backend/internal/http/response"
	"github.com/akdamba/portal-backend/internal/services"
)

const (
	msgContentNotFound    = "Indholdet blev ikke fundet."
	msgContentUnavailable = "Indholdet kan ikke hentes lige nu. Prøv venligst igen om lidt."
)

// ContentHandler serves the public (pre-build and client-side) content
// routes; the member-only variants live on PortalHandler.
type ContentHandler struct {
	content services.ContentService
}

func NewContentHandler(content services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

func (h *ContentHandler) SiteSettings(c *gin.Context) {
	settings, err := h.content.SiteSettings(c.Request.Context())
	if err != nil {
		respondContentError(c, err)
		return
	}
	response.RespondOK(c, settings)
}

func (h *ContentHandler) NewsList(c *gin.Context) {
	list, err := h.content.NewsList(c.Request.Context())
	if err != nil {
		respondContentError(c, err)
		return
	}
	public := make([]services.NewsArticle, 0, len(list))
	for _, a := range list {
		if a.IsPublic {
			public = append(public, a)
		}
	}
	response.RespondOK(c, gin.H{"articles": public})
}

func (h *ContentHandler) NewsArticle(c *gin.Context) {
	article, err := h.content.NewsArticle(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondContentError(c, err)
		return
	}
	if !article.IsPublic {
		// Members read it through the portal route instead.
		response.RespondError(c, http.StatusNotFound, "not_found", msgContentNotFound)
		return
	}
	response.RespondOK(c, article)
}

func (h *ContentHandler) Topic(c *gin.Context) {
	topic, err := h.content.Topic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondContentError(c, err)
		return
	}
	response.RespondOK(c, topic)
}

func respondContentError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		response.RespondError(c, http.StatusNotFound, "not_found", msgContentNotFound)
		return
	}
	response.RespondError(c, http.StatusBadGateway, "cms_unavailable", msgContentUnavailable)
}
