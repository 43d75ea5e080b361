package domain

import "errors"

var (
	// ErrInvalidAPIKey signals that the provided API key is not known.
	ErrInvalidAPIKey = errors.New("invalid api key")
	// ErrTokenStoreNotReady signals that the token store has not been loaded yet.
	// This can happen during startup when the DB isn't ready.
	ErrTokenStoreNotReady = errors.New("token store not ready")
	// ErrPageNotFound is returned for slugs outside the page catalog.
	ErrPageNotFound = errors.New("page not found")
	// ErrPDFDisabled is returned when PDF export is switched off in config.
	ErrPDFDisabled = errors.New("pdf export disabled")
	// ErrPDFTooLarge is returned when a rendered PDF exceeds the configured size.
	ErrPDFTooLarge = errors.New("pdf exceeds allowed size")
)
