package service

import "errors"

var (
	// ErrMissingCredentials is returned when email or password is empty.
	ErrMissingCredentials = errors.New("email and password are required")

	// ErrMissingIdentity is returned when the API answers a credential exchange without a user.
	ErrMissingIdentity = errors.New("api returned no identity")

	// ErrInvalidPage is returned when a page number is below 1.
	ErrInvalidPage = errors.New("invalid page")

	// ErrInvalidPageSize is returned when a page size is below 1.
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrExportDirMissing is returned when no directory is configured for audit exports.
	ErrExportDirMissing = errors.New("export directory not configured")
)
