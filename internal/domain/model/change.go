// Package model contains domain models passed between layers.
package model

import "time"

// Change is the notification emitted once per accepted interaction.
type Change struct {
	ID            string    `json:"id"`                       // unique notification id
	WidgetID      string    `json:"widget_id"`                // widget whose rating changed
	InteractionID string    `json:"interaction_id,omitempty"` // caller-supplied idempotency key
	Previous      float64   `json:"previous"`                 // rating before the interaction
	Rating        float64   `json:"rating"`                   // rating after the interaction
	Source        string    `json:"source"`                   // "click" or "key"
	Key           string    `json:"key,omitempty"`            // raw key identifier for key changes
	At            time.Time `json:"at"`
}

// Delta returns the signed difference the interaction produced.
func (c Change) Delta() float64 { return c.Rating - c.Previous }
