package logging

import "github.com/Iron-Ham/taglog/internal/errors"

// Errors returned by this package. Match them with errors.Is.
var (
	ErrAlreadyInitialized = errors.ErrAlreadyInitialized
	ErrNilRegistry        = errors.ErrNilRegistry
	ErrInvalidLevel       = errors.ErrInvalidLevel
	ErrInvalidShard       = errors.ErrInvalidShard
	ErrInvalidDate        = errors.ErrInvalidDate
	ErrNoneLevel          = errors.ErrNoneLevel
	ErrTransportClosed    = errors.ErrTransportClosed
)

// TransportError reports a failed write to one transport.
type TransportError = errors.TransportError
