// Package remote implements the repository ports over the carpooling HTTP API.
package remote

import (
	"context"
	"io"

	"carpool/internal/transport"
)

// Doer is the part of transport.Client the repositories need.
type Doer interface {
	DoJSON(ctx context.Context, req transport.Request, out any) error
	Download(ctx context.Context, path string) (io.ReadCloser, string, error)
}

var _ Doer = (*transport.Client)(nil)
