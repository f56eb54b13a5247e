package sdlp

import "github.com/pkg/errors"

var (
	// ErrConfiguration is returned when the parameters or the statement shape are not supported,
	// or when a derived size overflows.
	ErrConfiguration = errors.New("sdlp: invalid configuration")
	// ErrEncoding is returned when the secret does not satisfy the relation or its bounds.
	ErrEncoding = errors.New("sdlp: encoding failed")
	// ErrVerification is returned when a proof is rejected or cannot be decoded.
	ErrVerification = errors.New("sdlp: verification failed")
	// ErrDimensionMismatch is returned when the generators do not match the relation length.
	ErrDimensionMismatch = errors.New("sdlp: dimension mismatch")
)
