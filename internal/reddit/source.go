package reddit

import (
	"strings"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/feed"
)

// NewSource returns the page fetcher selected by cfg.Format.
func NewSource(cfg config.FeedConfig) feed.PageFetcher {
	switch strings.ToLower(cfg.Format) {
	case "rss", "atom":
		return NewRSSSource(cfg)
	default:
		return NewClient(cfg)
	}
}
