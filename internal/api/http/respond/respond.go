package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wxllspace/wxllspace-backend/internal/apperr"
	"github.com/wxllspace/wxllspace-backend/internal/logging"
)

// OK writes a success envelope. payload keys are merged next to "ok".
func OK(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error writes the failure envelope with the status mapped from the error
// kind. Server-side failures are logged with the request id.
func Error(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logging.NewLogger(c.Request.Context()).LogError(c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, gin.H{"ok": false, "error": apperr.Message(err)})
}

// BadRequest rejects a body or parameter that could not be decoded.
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}
