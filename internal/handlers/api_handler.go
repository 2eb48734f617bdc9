package handlers

import (
	"context"
	"net/http"
	"restaurant_ordering/internal/logger"
	"restaurant_ordering/internal/services"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is any dependency whose liveness the health check reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

type APIHandler struct {
	restaurantService services.RestaurantService
	checks            map[string]Pinger
	log               *logger.Logger
}

func NewAPIHandler(restaurantService services.RestaurantService, checks map[string]Pinger, log *logger.Logger) *APIHandler {
	return &APIHandler{restaurantService: restaurantService, checks: checks, log: log}
}

func (h *APIHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := gin.H{}
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			deps[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "dependencies": deps})
}

func (h *APIHandler) Restaurant(c *gin.Context) {
	info, err := h.restaurantService.Info(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
