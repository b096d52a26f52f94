package handlers

import (
	"errors"
	"net/http"

	"bench_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// authCredentials is the body of both sign-up and sign-in.
type authCredentials struct {
	Username string `json:"username" binding:"required" example:"operator"`
	Password string `json:"password" binding:"required" example:"secret"`
}

const errBadCredentials = "invalid credentials"

// bindJSONOrBadRequest binds the body into dst and answers 400 on failure.
// It returns false when the request was already answered.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}

// @Summary      Register an operator
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  map[string]int
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.SignUp(input.Username, input.Password)
	switch {
	case err == nil:
		if h.log != nil {
			h.log.Infow("operator_created", "username", input.Username, "id", id)
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	case errors.Is(err, service.ErrUserExists):
		h.logAndJSONError(c, http.StatusConflict, err.Error(), "auth_sign_up_failed", err, "username", input.Username)
	case errors.Is(err, service.ErrInvalidUsername), errors.Is(err, service.ErrWeakPassword):
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "auth_sign_up_failed", err, "username", input.Username)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "auth_sign_up_failed", err, "username", input.Username)
	}
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.GenerateToken(input.Username, input.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"token": token})
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidPassword):
		// one message for both so usernames cannot be probed
		h.logAndJSONError(c, http.StatusUnauthorized, errBadCredentials, "auth_sign_in_failed", err, "username", input.Username)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "auth_sign_in_failed", err, "username", input.Username)
	}
}
