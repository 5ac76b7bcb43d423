package search

import "github.com/pders01/gifr/internal/feed"

// Searcher is the filter API the TUI uses over the items of one session.
type Searcher interface {
	Index(items []feed.MediaItem) error
	Search(query string, limit int) ([]*Result, error)
	Reset() error
}

// DebugStatser provides lightweight stats for visibility/debugging.
type DebugStatser interface {
	DocCount() (int, error)
}

// Result is one matching item.
type Result struct {
	ID    string // item permalink
	Title string
	Score float64
}
