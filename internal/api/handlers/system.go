package handlers

import (
	"net/http"

	"github.com/ndewijer/portfolio-performance/internal/api/response"
	"github.com/ndewijer/portfolio-performance/internal/apperrors"
	"github.com/ndewijer/portfolio-performance/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health reports whether the database is reachable.
//
// Endpoint: GET /api/system/health
// Response: 200 OK when connected, 503 Service Unavailable otherwise
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(r.Context()); err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	// System is healthy
	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}

// Version handles GET requests to retrieve version information and feature availability.
// Returns the application version, schema version, available features, and whether
// migrations are pending.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with model.VersionInfo
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	version, err := h.systemService.CheckVersion()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetVersionInfo.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, version)
}
