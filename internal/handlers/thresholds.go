package handlers

import (
	"net/http"

	"bench_monitor/internal/models"

	"github.com/gin-gonic/gin"
)

// ThresholdRequest sets the maximum value of one channel.
type ThresholdRequest struct {
	Sensor   string   `json:"sensor" binding:"required" example:"P1"`
	MaxValue *float64 `json:"maxValue" binding:"required" example:"6"`
}

// @Summary      List thresholds
// @Description  Every channel with its effective limit; channels never set report the default.
// @Tags         thresholds
// @Produce      json
// @Success      200  {array}  models.Threshold
// @Router       /api/v1/thresholds [get]
func (h *Handler) listThresholds(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Settings.List())
}

// @Summary      Set one threshold
// @Tags         thresholds
// @Accept       json
// @Produce      json
// @Param        body  body      ThresholdRequest  true  "Threshold"
// @Success      200   {object}  models.Threshold
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/v1/thresholds [post]
// @Security     BearerAuth
func (h *Handler) setThreshold(c *gin.Context) {
	var req ThresholdRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	th, err := h.services.SetOne(c.Request.Context(), req.Sensor, *req.MaxValue)
	if err != nil {
		h.serviceError(c, "threshold_set_failed", err, "sensor", req.Sensor)
		return
	}
	c.JSON(http.StatusOK, th)
}

// @Summary      Set many thresholds
// @Description  Each entry is applied on its own; the reply lists what was committed and what failed.
// @Tags         thresholds
// @Accept       json
// @Produce      json
// @Param        body  body      []models.Threshold  true  "Thresholds"
// @Success      200   {object}  service.BulkResult
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/thresholds/bulk [post]
// @Security     BearerAuth
func (h *Handler) setThresholds(c *gin.Context) {
	var items []models.Threshold
	if ok := h.bindJSONOrBadRequest(c, &items); !ok {
		return
	}
	res := h.services.SetMany(c.Request.Context(), items)
	if h.log != nil && len(res.Failed) > 0 {
		h.log.Infow("thresholds_partially_applied", "committed", len(res.Committed), "failed", len(res.Failed))
	}
	c.JSON(http.StatusOK, res)
}
