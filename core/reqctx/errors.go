package reqctx

import "errors"

var (
	// ErrTypeKind is returned when a terminal method receives a payload
	// of the wrong semantic kind.
	ErrTypeKind = errors.New("payload has wrong type")

	// ErrNoRenderer is returned by Render when no render hook is configured.
	ErrNoRenderer = errors.New("no renderer configured")

	// ErrUnknownKind is returned by Respond for an unsupported Kind.
	ErrUnknownKind = errors.New("unknown response kind")
)
