// Package repository keeps the recent change history of hosted widgets.
package repository

import (
	"context"

	"github.com/okian/starrating/internal/domain/model"
)

// Change is the stored history entry.
type Change = model.Change

// Store provides read/write access to widget change history.
type Store interface {
	// Track starts keeping history for a widget. Changes for untracked
	// widgets are dropped.
	Track(ctx context.Context, widgetID string)

	// Forget drops a widget and its history.
	Forget(ctx context.Context, widgetID string)

	// Append records a change for a tracked widget.
	Append(ctx context.Context, c Change) error

	// Recent returns up to limit changes for a widget, newest first.
	// limit 0 returns everything retained. Returns ErrNotFound for
	// untracked widgets and ErrInvalidLimit for negative limits.
	Recent(ctx context.Context, widgetID string, limit int) ([]Change, error)

	// Count returns the number of changes retained across all widgets.
	Count(ctx context.Context) int
}
