package portal

import "errors"

var (
	ErrNotFound     = errors.New("portal: not found")
	ErrForbidden    = errors.New("portal: forbidden")
	ErrInvalidInput = errors.New("portal: invalid input")
	ErrDuplicate    = errors.New("portal: already exists")
)
