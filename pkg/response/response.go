package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/charlesng35/roomrental/pkg/errors"
	"github.com/charlesng35/roomrental/pkg/logger"
)

// ErrorBody is the payload written for every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// MessageBody acknowledges mutations that do not echo a resource.
type MessageBody struct {
	Message string `json:"message"`
}

// Success writes data as the JSON body. Resources are echoed as-is, without an envelope.
func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

// Message writes a confirmation message merged with optional extra fields.
func Message(c *gin.Context, statusCode int, message string, extra gin.H) {
	if len(extra) == 0 {
		c.JSON(statusCode, MessageBody{Message: message})
		return
	}

	body := gin.H{"message": message}
	for key, value := range extra {
		body[key] = value
	}
	c.JSON(statusCode, body)
}

// Error writes a JSON error response derived from an AppError. Server side failures
// are logged with their internal cause; the client only sees the public message.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		fields := []zap.Field{zap.Int("status", status)}
		if c.Request != nil {
			fields = append(fields, zap.String("method", c.Request.Method), zap.String("path", c.Request.URL.Path))
		}
		if appErr.Internal != nil {
			fields = append(fields, zap.Error(appErr.Internal))
		}
		logger.WithModule("http").Error(appErr.Message, fields...)
	}

	c.AbortWithStatusJSON(status, ErrorBody{
		Error: appErr.Message,
		Code:  appErr.Code,
	})
}
