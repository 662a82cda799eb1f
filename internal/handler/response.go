package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/service"
	"carpool/internal/transport"
)

// ErrorBody is the error envelope returned by the shell.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	status, body := mapError(err)
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{Error: body})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorBody{Code: "bad_request", Message: message}})
}

// mapError maps transport and service errors to an HTTP status and envelope.
func mapError(err error) (int, ErrorBody) {
	var te *transport.Error
	if errors.As(err, &te) {
		body := ErrorBody{Code: string(te.Kind), Message: te.Message, Details: te.Details}
		if te.Code != "" {
			body.Code = te.Code
		}
		return statusForKind(te.Kind), body
	}

	switch {
	// Validation errors - Bad Request
	case errors.Is(err, service.ErrMissingCredentials),
		errors.Is(err, service.ErrInvalidPage),
		errors.Is(err, service.ErrInvalidPageSize),
		errors.Is(err, service.ErrInvalidTripID):
		return http.StatusBadRequest, ErrorBody{Code: "bad_request", Message: err.Error()}

	// Upstream contract violations
	case errors.Is(err, service.ErrMissingIdentity):
		return http.StatusBadGateway, ErrorBody{Code: string(transport.KindServer), Message: transport.MessageFallback}

	// Default to internal server error
	default:
		return http.StatusInternalServerError, ErrorBody{Code: string(transport.KindUnknown), Message: transport.MessageFallback}
	}
}

func statusForKind(k transport.Kind) int {
	switch k {
	case transport.KindNetwork, transport.KindServer:
		return http.StatusBadGateway
	case transport.KindUnauthorized:
		return http.StatusUnauthorized
	case transport.KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
