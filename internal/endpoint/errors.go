package endpoint

import "errors"

var (
	// ErrDuplicatePathParam is returned when a path template repeats a
	// placeholder name.
	ErrDuplicatePathParam = errors.New("duplicate path parameter")

	// ErrUnsupportedMethod is returned for methods without a call signature
	// (anything but get, post, put, patch and delete).
	ErrUnsupportedMethod = errors.New("unsupported method")

	// ErrUnsupportedLocation is returned for parameters that are neither in
	// the path nor in the query.
	ErrUnsupportedLocation = errors.New("unsupported parameter location")

	// ErrMissingJSONBody is returned when a request body declares no
	// application/json schema.
	ErrMissingJSONBody = errors.New("request body has no application/json schema")
)
