package storage

import (
	"time"
)

// Favorite is a saved search term.
type Favorite struct {
	Term     string    `json:"term"`
	AddedAt  time.Time `json:"added_at"`
	LastUsed time.Time `json:"last_used,omitempty"`
}
