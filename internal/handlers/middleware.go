package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey       = "userId"
	deviceKeyHeader = "X-Device-Key"
)

const (
	errMissingAuth   = "missing Authorization header"
	errBadAuthFormat = "invalid Authorization header format"
	errBadToken      = "invalid or expired token"
	errBadDeviceKey  = "invalid device key"
)

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: msg})
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// userIdMiddleware admits signed-in operators and stores their id under userIDKey.
func (h *Handler) userIdMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		abortUnauthorized(c, errMissingAuth)
		return
	}
	token, ok := bearerToken(header)
	if !ok {
		abortUnauthorized(c, errBadAuthFormat)
		return
	}

	userId, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Debugw("token_rejected", "err", err, "path", c.FullPath())
		}
		abortUnauthorized(c, errBadToken)
		return
	}

	c.Set(userIDKey, userId)
	c.Next()
}

// deviceKeyMiddleware guards ingestion with a shared key. With no key
// configured the endpoint is open, as on an isolated bench network.
func (h *Handler) deviceKeyMiddleware(c *gin.Context) {
	if h.deviceKey == "" {
		c.Next()
		return
	}
	got := c.GetHeader(deviceKeyHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.deviceKey)) != 1 {
		abortUnauthorized(c, errBadDeviceKey)
		return
	}
	c.Next()
}
