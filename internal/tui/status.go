package tui

import (
	"fmt"
	"strings"
)

// Canonical short status messages used across the app.
const (
	MsgLoadingPage    = "Loading more…"
	MsgNoItems        = "No playable media"
	MsgNoFavorites    = "No favorites yet"
	MsgNoSource       = "Nothing to open"
	MsgEngineStopped  = "Feed stopped"
	MsgFilterCleared  = "Filter cleared"
	MsgFilterDisabled = "Filter unavailable"
)

func MsgFavorited(term string) string {
	return fmt.Sprintf("Saved r/%s", strings.TrimSpace(term))
}

func MsgUnfavorited(term string) string {
	return fmt.Sprintf("Removed r/%s", strings.TrimSpace(term))
}

func MsgOpening(title, player string) string {
	return fmt.Sprintf("Playing '%s' in %s", truncateEnd(strings.TrimSpace(title), 40), player)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgFeedSummary(term string, items int, fetching bool) string {
	base := fmt.Sprintf("r/%s • %d items", term, items)
	if fetching {
		base += " • " + MsgLoadingPage
	}
	return base
}
