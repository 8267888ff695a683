package handlers

import (
	"github.com/gin-gonic/gin"

	"ecopool/internal/utils"
	"ecopool/pkg/logger"
	"ecopool/pkg/websocket"
)

type WebSocketHandler struct {
	hub *websocket.Hub
	log *logger.Logger
}

func NewWebSocketHandler(hub *websocket.Hub, log *logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, log: log}
}

// Connect upgrades the request and registers the client in their personal
// room. Auth middleware runs before this, so the identity is trusted.
func (h *WebSocketHandler) Connect(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := websocket.ServeWS(h.hub, c.Writer, c.Request, userID); err != nil {
		h.log.WithError(err).WithUserID(userID).Error("websocket upgrade failed")
		utils.InternalServerErrorResponse(c)
	}
}
