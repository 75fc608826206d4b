package common

import (
	"github.com/gin-gonic/gin"
)

// FailureBody is the error envelope every endpoint shares. Success bodies
// are endpoint-specific flat shapes carrying their own success flag.
type FailureBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Meta pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewMeta creates Meta with computed total_pages
func NewMeta(page, perPage int, total int64) *Meta {
	totalPages := total / int64(perPage)
	if total%int64(perPage) > 0 {
		totalPages++
	}
	return &Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// ErrorResponse returns an error JSON response. The underlying error is
// appended so operators can see the driver message; it is not a stable
// contract for clients.
func ErrorResponse(c *gin.Context, status int, message string, err error) {
	if err != nil {
		message = message + ": " + err.Error()
	}
	c.JSON(status, FailureBody{
		Success: false,
		Error:   message,
	})
}
