package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the error shape returned by every endpoint. Code carries a
// machine-readable discriminator only where clients branch on it.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// MessageResponse wraps endpoints whose success payload is just a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// Error sends an error response.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorResponse{Error: message})
}

// ErrorWithCode sends an error response with a machine-readable code.
func ErrorWithCode(c echo.Context, status int, message, code string) error {
	return c.JSON(status, ErrorResponse{Error: message, Code: code})
}

// ErrorWithDetails sends an error response with extra context.
func ErrorWithDetails(c echo.Context, status int, message, details string) error {
	return c.JSON(status, ErrorResponse{Error: message, Details: details})
}
