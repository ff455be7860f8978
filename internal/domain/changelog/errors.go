package changelog

import "errors"

// ErrInvalidInput indicates invalid change log input.
var ErrInvalidInput = errors.New("invalid change log input")
