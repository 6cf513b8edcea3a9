package analyzer

import "errors"

// Failure kinds. Errors returned by this package wrap exactly one of them;
// use errors.Is to tell them apart.
var (
	ErrNetwork  = errors.New("network error")
	ErrDecode   = errors.New("decode error")
	ErrURLParse = errors.New("url parse error")
)
