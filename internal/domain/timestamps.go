// Package domain defines the core entities of the Storekeeper catalog.
package domain

import "time"

// Timestamps holds the identity and audit fields shared by all entities.
type Timestamps struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the modification time, setting CreatedAt on first use.
func (t *Timestamps) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}
