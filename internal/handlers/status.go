package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Health check
// @Description  "degraded" when the last write did not reach storage or the stored limits were never read; 503 until the run status was loaded once.
// @Tags         system
// @Produce      json
// @Success      200  {object}  service.HealthView
// @Failure      503  {object}  service.HealthView
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	hv := h.services.Health()
	code := http.StatusOK
	if !hv.Initialized {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, hv)
}

// @Summary      Current run status
// @Tags         status
// @Produce      json
// @Success      200  {object}  service.StatusView
// @Failure      404  {object}  errorResponse  "never initialized"
// @Router       /api/v1/status [get]
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.GetStatus(c.Request.Context())
	if err != nil {
		h.serviceError(c, "status_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
