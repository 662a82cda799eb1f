package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Kind classifies every failure the client surfaces.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindUnauthorized Kind = "unauthorized"
	KindValidation   Kind = "validation"
	KindServer       Kind = "server"
	KindUnknown      Kind = "unknown"
)

// User-facing fallback messages.
const (
	MessageNetwork      = "Unable to reach the server. Check your connection and try again."
	MessageUnauthorized = "Your session has expired. Please sign in again."
	MessageFallback     = "Something went wrong. Please try again."
)

// Error is the normalized shape of every failed request.
//
// Callers branch on Kind only. The underlying transport error is kept for
// diagnostics through Cause and is deliberately not exposed to errors.Is/As.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details any
	Status  int

	cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return string(e.Kind)
}

// Cause returns the raw transport error for logging.
func (e *Error) Cause() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// KindOf returns the Kind of err, or "" when err is not a transport error.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

// IsKind reports whether err is a transport error of kind k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// errorPayload is the error body the API sends, either flat or wrapped in
// an "error" object. Details keeps whatever JSON shape the API chose.
type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

func parseErrorPayload(body []byte) errorPayload {
	if len(body) == 0 {
		return errorPayload{}
	}
	var envelope struct {
		Error *errorPayload `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return *envelope.Error
	}
	var flat errorPayload
	if err := json.Unmarshal(body, &flat); err != nil {
		return errorPayload{}
	}
	return flat
}

// kindForCode maps the API's declared error code to a Kind. Codes the client
// does not recognize fall back to the status class.
func kindForCode(code string, status int) Kind {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "validation_error", "validation", "invalid", "invalid_input", "bad_request":
		return KindValidation
	case "server_error", "internal_error", "internal_server_error":
		return KindServer
	}
	if status >= http.StatusInternalServerError {
		return KindServer
	}
	return KindUnknown
}
