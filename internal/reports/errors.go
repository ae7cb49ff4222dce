package reports

import "errors"

var (
	// ErrNotFound indicates the report does not exist or belongs to another user.
	ErrNotFound = errors.New("report not found")

	// ErrInvalidInput covers bad upload parameters such as an unknown bureau.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoText indicates every extraction stage came back empty; the user
	// should be asked for a clearer file.
	ErrNoText = errors.New("no text could be extracted from the document")
)
