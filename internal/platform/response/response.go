package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/hostel-backend/internal/domain"
)

// envelope is the JSON shape shared by every endpoint.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errBody    `json:"error,omitempty"`
}

type errBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type paginatedEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
}

// Success writes a 200 response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

// Paginated writes a 200 response with paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, paginatedEnvelope{Success: true, Data: items, Total: total, Page: page, Limit: limit})
}

// BadRequest writes a 400 with a validation-style body.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{Success: false, Error: &errBody{
		Kind:    string(domain.KindValidation),
		Message: message,
	}})
}

// Unauthorized writes a 401.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, envelope{Success: false, Error: &errBody{
		Kind:    "unauthorized",
		Message: message,
	}})
}

// statusFor maps domain error kinds to HTTP statuses. Every kind is a
// business-state failure: nothing here is retryable, the client must change
// the request or show the message.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindInvalidTransition, domain.KindCapacityExceeded, domain.KindDateConflict, domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes the HTTP mapping of any error. Domain errors keep their kind
// and message; everything else becomes an opaque 500.
func Error(c *gin.Context, err error) {
	if de, ok := err.(*domain.Error); ok {
		c.JSON(statusFor(de.Kind), envelope{Success: false, Error: &errBody{
			Kind:    string(de.Kind),
			Message: de.Message,
		}})
		return
	}
	c.JSON(http.StatusInternalServerError, envelope{Success: false, Error: &errBody{
		Kind:    "internal",
		Message: "internal server error",
	}})
}
