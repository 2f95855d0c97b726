package modtree

import "errors"

// Standard errors returned by repositories and resources.
var (
	ErrInvalidSeparators = errors.New("modtree: invalid separator set")
	ErrNilStore          = errors.New("modtree: store must not be nil")
	ErrClosed            = errors.New("modtree: repository already closed")

	ErrNotExist    = errors.New("modtree: resource does not exist")
	ErrUnsupported = errors.New("modtree: operation unsupported by backing store")
)
