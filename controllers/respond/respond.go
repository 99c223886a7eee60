// Package respond writes JSON responses and maps service errors onto HTTP
// statuses.
package respond

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"craftmyprep-backend/apperrors"
	"craftmyprep-backend/logger"
)

// Error aborts the request with the status for err and an {"error": msg}
// body. Server-side failures are logged with their cause, which never
// reaches the client.
func Error(c *gin.Context, log *logger.Logger, err error) {
	status := apperrors.StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": apperrors.PublicMessage(err)})
}

func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func Created(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// IDParam parses a positive numeric path parameter. On failure it has
// already written a 400.
func IDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// BindJSON decodes the body into dst. On failure it has already written a 400.
func BindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}
