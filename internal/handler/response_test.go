package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"carpool/internal/service"
	"carpool/internal/transport"
)

func TestMapError(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"network", &transport.Error{Kind: transport.KindNetwork, Code: "network_error", Message: transport.MessageNetwork}, http.StatusBadGateway, "network_error"},
		{"unauthorized", &transport.Error{Kind: transport.KindUnauthorized, Status: 401}, http.StatusUnauthorized, "unauthorized"},
		{"validation", &transport.Error{Kind: transport.KindValidation, Code: "validation_error", Status: 400}, http.StatusUnprocessableEntity, "validation_error"},
		{"server", &transport.Error{Kind: transport.KindServer, Status: 503}, http.StatusBadGateway, "server"},
		{"unknown", &transport.Error{Kind: transport.KindUnknown, Status: 404}, http.StatusInternalServerError, "unknown"},
		{"wrapped transport error", fmt.Errorf("load feed: %w", &transport.Error{Kind: transport.KindValidation}), http.StatusUnprocessableEntity, "validation"},
		{"bad page", service.ErrInvalidPage, http.StatusBadRequest, "bad_request"},
		{"missing credentials", service.ErrMissingCredentials, http.StatusBadRequest, "bad_request"},
		{"missing identity", service.ErrMissingIdentity, http.StatusBadGateway, "server"},
		{"anything else", errors.New("disk full"), http.StatusInternalServerError, "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := mapError(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantCode, body.Code)
		})
	}
}

func TestMapError_HidesInternalMessages(t *testing.T) {
	_, body := mapError(errors.New("open /var/exports: permission denied"))
	assert.Equal(t, transport.MessageFallback, body.Message)
}
