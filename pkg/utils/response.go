package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse define la estructura estándar para las respuestas de error.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// SendSuccess envía el payload tal cual.
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// SendError envía una respuesta de error con un formato estandarizado.
func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error": ErrorResponse{Message: message, Status: statusCode},
	})
}

// SendMappedError traduce err con el mapper y aborta la cadena de handlers.
func SendMappedError(c *gin.Context, mapper *ErrorMapper, err error) {
	info := mapper.Map(err)
	if info.Detail {
		info.Message = info.Message + ": " + err.Error()
	}
	SendError(c, info.Status, info.Message)
	c.Abort()
}

// --- Helpers específicos para errores comunes ---

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendUnauthorized(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, message)
	c.Abort()
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}
