package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}

// SuccessResponse represents a successful API response
type SuccessResponse struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// SendError sends a generic error response
func SendError(c *gin.Context, statusCode int, message string, details ...string) {
	resp := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}
	if len(details) > 0 {
		resp.Details = details[0]
	}
	c.JSON(statusCode, resp)
}

// SendInternalError sends a 500 internal server error
func SendInternalError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}

// SendBadRequest sends a 400 bad request error
func SendBadRequest(c *gin.Context, message string, details ...string) {
	SendError(c, http.StatusBadRequest, message, details...)
}

// SendNotFound sends a 404 not found error
func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

// SendValidationError sends a 422 validation error
func SendValidationError(c *gin.Context, message string, details ...string) {
	SendError(c, http.StatusUnprocessableEntity, message, details...)
}

// SendSuccess sends a 200 success response
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
	})
}
