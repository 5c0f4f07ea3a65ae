package response

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
// Kind tells not-found, invalid input and internal failures apart.
type ErrorResponse struct {
	Error string        `json:"error"`
	Kind  apperror.Kind `json:"kind"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it defaults to 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message, Kind: apperror.KindOf(err)})
		return
	}

	log.Printf("%s %s: unexpected error: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Kind: apperror.KindInternal})
}

// BadRequest sends a 400 response for binding failures, exposing the validator details.
func BadRequest(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "kind": apperror.KindInvalid, "details": err.Error()})
}
