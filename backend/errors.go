package backend

import "errors"

var (
	// Address parsing errors
	ErrMalformedAddress = errors.New("backend: malformed backend address")
	ErrUnknownProtocol  = errors.New("backend: unknown backend protocol")

	// Lifecycle errors
	ErrNotOpen    = errors.New("backend: backend not open")
	ErrOpenFailed = errors.New("backend: backend initialization failed")

	// Content errors
	ErrInvalidName = errors.New("backend: invalid object name")
	ErrNotExist    = errors.New("backend: object does not exist")
	ErrIsContainer = errors.New("backend: object is a container")
	ErrNoPrefix    = errors.New("backend: operation requires a key prefix")
)
