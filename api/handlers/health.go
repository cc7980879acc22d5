package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/bikeshare-dashboard/internal/session"
)

type HealthHandler struct {
	store *session.Store
}

func NewHealthHandler(store *session.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) Health(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	s, tables, err := h.store.Tables()
	if err != nil {
		checks["dataset"] = "unhealthy: " + err.Error()
		status = "unhealthy"
	} else {
		checks["dataset"] = "healthy"
		checks["dataset_name"] = s.Name()
		checks["daily_rows"] = strconv.Itoa(len(tables.Daily))
		checks["hourly_rows"] = strconv.Itoa(len(tables.Hourly))
		checks["loaded_at"] = s.Info().LoadedAt.UTC().Format(time.RFC3339)
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

func (h *HealthHandler) Ready(c *gin.Context) {
	if _, _, err := h.store.Tables(); err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:    "not ready",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
