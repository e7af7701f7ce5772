package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the single-message error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationResponse carries every failed validation rule.
type ValidationResponse struct {
	Errors []string `json:"errors"`
}

// MessageResponse acknowledges a mutation that returns no record.
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON sends a success body as-is.
func JSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// Message sends {"message": ...}.
func Message(c *gin.Context, code int, message string) {
	c.JSON(code, MessageResponse{Message: message})
}

// Error sends {"error": ...}.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Error: message})
}

// Errors sends {"errors": [...]}.
func Errors(c *gin.Context, code int, messages []string) {
	c.JSON(code, ValidationResponse{Errors: messages})
}
