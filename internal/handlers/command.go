package handlers

import (
	"net/http"

	"bench_monitor/internal/machine"
	"bench_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// CommandRequest is an operator command. SET and RST are accepted as
// aliases of START and STOP.
type CommandRequest struct {
	Command string `json:"command" binding:"required" example:"START"`
}

// commandFailure carries the accepted transition alongside a storage or device error.
type commandFailure struct {
	Error string `json:"error"`
	service.CommandResult
}

// @Summary      Issue a command
// @Description  START, STOP or RESET (SET/RST aliases). A relay failure does not undo the transition.
// @Tags         command
// @Accept       json
// @Produce      json
// @Param        body  body      CommandRequest  true  "Command"
// @Success      200   {object}  service.CommandResult
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse  "illegal in the current state"
// @Failure      502   {object}  commandFailure  "accepted, device unreachable"
// @Failure      503   {object}  commandFailure  "accepted, not persisted"
// @Router       /api/v1/command [post]
// @Security     BearerAuth
func (h *Handler) command(c *gin.Context) {
	var req CommandRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	cmd, err := machine.ParseCommand(req.Command)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	h.execute(c, cmd)
}

// @Summary      Reset the alarm
// @Tags         command
// @Produce      json
// @Success      200  {object}  service.CommandResult
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse  "no active alarm"
// @Failure      503  {object}  commandFailure
// @Router       /api/v1/command/reset [post]
// @Security     BearerAuth
func (h *Handler) resetAlarm(c *gin.Context) {
	h.execute(c, machine.CommandReset)
}

func (h *Handler) execute(c *gin.Context, cmd machine.Command) {
	uid, _ := c.Get(userIDKey)
	res, err := h.services.Execute(c.Request.Context(), cmd)
	if err != nil {
		if res.Action == "" {
			h.serviceError(c, "command_failed", err, "command", cmd, "user_id", uid)
			return
		}
		if h.log != nil {
			h.log.Errorw("command_partially_applied", "command", cmd, "action", res.Action, "user_id", uid, "err", err)
		}
		c.JSON(httpStatus(err), commandFailure{Error: err.Error(), CommandResult: res})
		return
	}
	if h.log != nil {
		h.log.Infow("command_applied", "command", cmd, "action", res.Action, "user_id", uid)
	}
	c.JSON(http.StatusOK, res)
}
