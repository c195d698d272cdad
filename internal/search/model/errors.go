package model

import (
	"github.com/Laisky/errors/v2"
)

// Fatal pipeline error kinds. Degradation signals (classifier, reranker,
// cache) are logged and recovered, never returned as errors.
var (
	// ErrInvalidRequest marks input validation failures; maps to HTTP 400.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrBackendUnavailable marks meta-searcher failures; maps to HTTP 502.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrInternal marks unexpected failures; maps to HTTP 500.
	ErrInternal = errors.New("internal error")
)

// ErrorKind returns the wire tag for err.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "InvalidRequest"
	case errors.Is(err, ErrBackendUnavailable):
		return "BackendUnavailable"
	default:
		return "Internal"
	}
}
