package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Unprocessable(c *gin.Context, code, message string) {
	Write(c, http.StatusUnprocessableEntity, code, message)
}

func BadGateway(c *gin.Context, code, message string) {
	Write(c, http.StatusBadGateway, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// WriteBusiness mapea el Kind del error de negocio al status HTTP.
func WriteBusiness(c *gin.Context, err error, message string) {
	kind, ok := KindOf(err)
	if !ok {
		Internal(c, "internal_error", message)
		return
	}

	switch kind {
	case KindConflict:
		Conflict(c, err.Error(), message)
	case KindInvalid:
		BadRequest(c, err.Error(), message)
	case KindNotFound:
		NotFound(c, err.Error(), message)
	case KindPolicy:
		Unprocessable(c, err.Error(), message)
	case KindDependency:
		BadGateway(c, err.Error(), message)
	default:
		Internal(c, err.Error(), message)
	}
}
