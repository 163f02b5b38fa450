package repository

import "errors"

// Sentinel kinds for history errors.
var (
	ErrNotFound     = errors.New("widget history not found")
	ErrInvalidLimit = errors.New("invalid history limit")
)
