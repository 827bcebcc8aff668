package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yourusername/mediagrab/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

const progressPingInterval = 30 * time.Second

// ProgressWebSocketHandler streams per-job progress events over WebSocket
type ProgressWebSocketHandler struct {
	manager *app.Manager
	logger  *zap.Logger
}

// NewProgressWebSocketHandler creates a new WebSocket progress handler
func NewProgressWebSocketHandler(manager *app.Manager, logger *zap.Logger) *ProgressWebSocketHandler {
	return &ProgressWebSocketHandler{
		manager: manager,
		logger:  logger,
	}
}

// HandleWebSocket handles GET /api/v1/downloads/:id/progress
func (h *ProgressWebSocketHandler) HandleWebSocket(c *gin.Context) {
	id := c.Param("id")

	if _, err := h.manager.GetJob(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "download not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	events, unsubscribe := h.manager.Subscribe(id)
	defer unsubscribe()

	h.logger.Info("WebSocket client connected",
		zap.String("job_id", id),
		zap.String("remote_addr", c.Request.RemoteAddr))

	// Drain client frames so close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(progressPingInterval)
	defer ping.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				// Channel closed: the job reached a terminal state.
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "job finished"))
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("Failed to marshal progress event", zap.Error(err))
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debug("WebSocket client disconnected",
					zap.String("job_id", id), zap.Error(err))
				return
			}
		case <-ping.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
