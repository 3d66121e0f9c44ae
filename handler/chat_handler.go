package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/blockvoltcr7/vector-store-be/service"
)

// ChatHandler upgrades the connection and hands it to the WebSocket chat
// loop, which owns the conversation history for the connection's lifetime.
type ChatHandler struct {
	wsService *service.WebSocketService
}

func NewChatHandler(wsService *service.WebSocketService) *ChatHandler {
	return &ChatHandler{
		wsService: wsService,
	}
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	h.wsService.HandleChat(c.Writer, c.Request)
}
