package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every API endpoint returns.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{
		Code:    status,
		Message: message,
	})
}

func badRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, message)
}

func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	fail(c, http.StatusInternalServerError, "failed to persist slots")
}
