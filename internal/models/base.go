package models

import (
	"time"

	"budgetree/internal/uuid"
)

// Base contains the identity and timestamps shared by ledger records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBase returns a Base with a fresh UUIDv7 and both timestamps set to now.
func NewBase() Base {
	now := time.Now().UTC()
	return Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch bumps UpdatedAt.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now().UTC()
}
