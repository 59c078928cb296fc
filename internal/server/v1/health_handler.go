package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nulzo/model-capability-api/internal/gateway"
	"github.com/nulzo/model-capability-api/pkg/api"
)

type HealthHandler struct {
	service   gateway.Service
	version   string
	startTime time.Time
}

func NewHealthHandler(service gateway.Service, version string) *HealthHandler {
	return &HealthHandler{
		service:   service,
		version:   version,
		startTime: time.Now(),
	}
}

// Health returns the health status and uptime of the API.
//
// This endpoint is used by load balancers and monitoring systems
// to verify the service is running.
func (h *HealthHandler) Health(c *gin.Context) {
	kinds := h.service.Kinds()
	providers := make([]string, 0, len(kinds))
	for _, k := range kinds {
		providers = append(providers, string(k))
	}

	c.JSON(http.StatusOK, api.HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Providers: providers,
	})
}

// Ready reports whether the service can answer capability lookups. It is
// not ready until at least one provider has registered.
func (h *HealthHandler) Ready(c *gin.Context) {
	if len(h.service.Kinds()) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "no providers registered"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
