package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/fedicore/internal/application/dto"
	"github.com/turtacn/fedicore/internal/domain/repository"
	"github.com/turtacn/fedicore/pkg/constants"
)

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	domain string
	store  repository.KeyStore
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(domain string, store repository.KeyStore) *HealthHandler {
	return &HealthHandler{domain: domain, store: store}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Reports liveness and the number of cached account keys.
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:     "healthy",
		Service:    constants.ServiceName,
		Domain:     h.domain,
		CachedKeys: h.store.Len(),
		Timestamp:  time.Now().UTC(),
	})
}
