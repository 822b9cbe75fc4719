package handler

import (
	"net/http"
	"time"

	"linkrelay/internal/recorder"

	"github.com/gin-gonic/gin"
)

// StatsProvider exposes the click recorder counters
type StatsProvider interface {
	Stats() recorder.Stats
}

// HealthHandler reports liveness and recorder counters
type HealthHandler struct {
	stats StatsProvider
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(stats StatsProvider) *HealthHandler {
	return &HealthHandler{stats: stats}
}

// HealthStatus is the body of GET /health
type HealthStatus struct {
	Status   string          `json:"status"`
	Time     string          `json:"time"`
	Recorder *recorder.Stats `json:"recorder,omitempty"`
}

// Health handles GET /health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} Response{data=HealthStatus}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status := HealthStatus{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}
	if h.stats != nil {
		s := h.stats.Stats()
		status.Recorder = &s
	}

	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    status,
	})
}
