package rating

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoDefaultBand = errors.New("color bands must include a band at threshold 0")
	ErrInvalidBand   = errors.New("invalid color band")
	ErrUnknownState  = errors.New("unknown star state")
)
