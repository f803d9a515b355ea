package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/molgraph/pkg/types/common"
)

// HealthChecker is one probeable dependency.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	version  string
	checkers []HealthChecker
}

// NewHealthHandler builds the handler; checkers probe optional
// infrastructure (cache, database) and may be empty.
func NewHealthHandler(version string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{version: version, checkers: checkers}
}

// Live handles GET /healthz: process liveness only.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": common.HealthUp, "version": h.version})
}

// Ready handles GET /readyz: probes every registered dependency.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	overall := common.HealthUp
	components := make([]common.ComponentHealth, 0, len(h.checkers))
	for _, chk := range h.checkers {
		started := time.Now()
		err := chk.Check(ctx)
		ch := common.ComponentHealth{
			Name:    chk.Name(),
			Status:  common.HealthUp,
			Latency: time.Since(started),
		}
		if err != nil {
			ch.Status = common.HealthDown
			ch.Message = err.Error()
			overall = common.HealthDegraded
		}
		components = append(components, ch)
	}

	status := http.StatusOK
	if overall != common.HealthUp {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": overall, "components": components})
}
