package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-ledger-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta carries pagination metadata for list responses
type Meta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithPagination sends a paginated success response
func RespondWithPagination(c *gin.Context, message string, data interface{}, meta Meta) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    &meta,
	})
}

// RespondWithError translates an error into the envelope with the right status
func RespondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	if appErr, ok := errors.As(err); ok {
		status = appErr.StatusCode()
		message = appErr.Message
	}

	c.JSON(status, Response{
		Success: false,
		Message: message,
	})
}
