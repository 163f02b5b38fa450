package service

import "errors"

// Sentinel errors returned by the widget host.
var (
	ErrNotFound           = errors.New("widget not found")
	ErrInvalidSettings    = errors.New("invalid widget settings")
	ErrInvalidInteraction = errors.New("invalid interaction")
	ErrBackpressure       = errors.New("change notifications backed up")
	ErrTooManyWidgets     = errors.New("widget limit reached")
	ErrNotStarted         = errors.New("service not started")
)
