package handlers

import (
	"net/http"
	"os/exec"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/mediagrab/internal/app"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	manager *app.Manager
	binary  string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(manager *app.Manager, binary string) *HealthHandler {
	return &HealthHandler{
		manager: manager,
		binary:  binary,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Jobs    struct {
		Active int `json:"active"`
	} `json:"jobs"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}
	response.Jobs.Active = h.manager.ActiveCount()

	c.JSON(http.StatusOK, response)
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if _, err := exec.LookPath(h.binary); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "download engine binary not found: " + h.binary,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
