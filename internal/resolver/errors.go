package resolver

import "errors"

// Errors returned by resolvers.
var (
	// ErrInvalidJSON indicates a statuses file that is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrNoExistsFunc indicates a script that does not define exists(key).
	ErrNoExistsFunc = errors.New("script does not define function exists")

	// ErrClosed indicates a resolver used after Close.
	ErrClosed = errors.New("resolver closed")
)
