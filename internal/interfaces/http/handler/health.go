package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erp/checkout/internal/infrastructure/logger"
	"github.com/erp/checkout/internal/interfaces/http/dto"
)

// Pinger checks a backing dependency
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and database reachability
type HealthHandler struct {
	BaseHandler
	db        Pinger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version, startTime: time.Now()}
}

// HealthResponse is the service health
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Database  string `json:"database" example:"ok"`
	Version   string `json:"version,omitempty"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// Health godoc
//
//	@ID				health
//	@Summary		Service health
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	APIResponse[HealthResponse]
//	@Failure		503	{object}	APIResponse[HealthResponse]
//	@Router			/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "ok",
		Database:  "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	if err := h.db.Ping(ctx); err != nil {
		logger.FromGin(c).Warn("Health check database ping failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
		return
	}
	h.Success(c, resp)
}
