package handlers

import (
	"net/http"

	"bench_monitor/internal/models"
	"bench_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// IngestRequest is one sample from the bench, readings ordered P1..Pn and T1..Tm.
type IngestRequest struct {
	Pressure    []float64 `json:"pressure" example:"1.2,1.1,1.3"`
	Temperature []float64 `json:"temperature" example:"40,41,39.5,40,42,41"`
}

// ingestFailure carries the decided action alongside a storage error.
type ingestFailure struct {
	Error string `json:"error"`
	service.IngestResult
}

// @Summary      Ingest a sample
// @Description  Evaluates the readings against thresholds and advances the run state.
// @Tags         ingest
// @Accept       json
// @Produce      json
// @Param        body  body      IngestRequest  true  "Sample"
// @Param        X-Device-Key  header  string  false  "Device key, when configured"
// @Success      200   {object}  service.IngestResult
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  ingestFailure  "decided but not persisted"
// @Router       /api/v1/ingest [post]
func (h *Handler) ingest(c *gin.Context) {
	var req IngestRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	res, err := h.services.Ingest(c.Request.Context(), models.Sample{
		Pressure:    req.Pressure,
		Temperature: req.Temperature,
	})
	if err != nil {
		if res.Action == "" {
			h.serviceError(c, "ingest_failed", err)
			return
		}
		if h.log != nil {
			h.log.Errorw("ingest_not_persisted", "action", res.Action, "err", err)
		}
		c.JSON(httpStatus(err), ingestFailure{Error: err.Error(), IngestResult: res})
		return
	}
	c.JSON(http.StatusOK, res)
}
