package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-queue-backend/internal/account"
	"restaurant-queue-backend/internal/auth"
	"restaurant-queue-backend/internal/authz"
	"restaurant-queue-backend/internal/prediction"
	"restaurant-queue-backend/internal/store"
)

// Envelope is the uniform response body.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// OK writes a 200 envelope.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Code: http.StatusOK, Message: "success", Data: data})
}

// BadRequest writes a 400 envelope for malformed input.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Code: http.StatusBadRequest, Message: message, Data: nil})
}

// Fail maps a service error onto the envelope. Unknown errors become a
// generic 500 so internals never leak to clients.
func Fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "error"

	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrNoOccupancy):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, authz.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, store.ErrDuplicateName),
		errors.Is(err, store.ErrCapacityExceeded),
		errors.Is(err, store.ErrAlreadyHandled):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, account.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, prediction.ErrUpstream):
		status = http.StatusBadGateway
		message = err.Error()
	}

	c.JSON(status, Envelope{Code: status, Message: message, Data: nil})
}
