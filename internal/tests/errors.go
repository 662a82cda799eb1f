package tests

import "errors"

// ErrMockNotFound is returned by mocks for unknown ids.
var ErrMockNotFound = errors.New("not found")
