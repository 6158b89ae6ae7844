package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrNoInput       = errors.New("no input documents found")
	ErrNoText        = errors.New("no text extracted")
	ErrUnsupported   = errors.New("unsupported document type")
	ErrInvalidConfig = errors.New("invalid configuration")
)
