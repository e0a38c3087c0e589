package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akdamba/portal-backend/internal/http/response"
	"github.com/akdamba/portal-backend/internal/services"
)

type CallbackHandler struct {
	callback services.CallbackService
}

func NewCallbackHandler(callback services.CallbackService) *CallbackHandler {
	return &CallbackHandler{callback: callback}
}

func (ch *CallbackHandler) RequestCallback(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
		Name   string `json:"name"`
		Phone  string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", services.MsgCallbackMissingFields)
		return
	}

	if apiErr := ch.callback.RequestCallback(c.Request.Context(), req.Reason, req.Name, req.Phone); apiErr != nil {
		response.RespondAPIError(c, apiErr)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "message": services.MsgCallbackReceived})
}
