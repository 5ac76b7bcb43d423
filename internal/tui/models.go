package tui

import "github.com/pders01/gifr/internal/feed"

type View int

const (
	ViewFeed View = iota
	ViewSearch
	ViewFilter
	ViewDetail
	ViewSettings
)

// snapshotMsg carries a view model published by the feed engine.
type snapshotMsg struct {
	vm feed.ViewModel
}

// engineStoppedMsg is delivered once the engine closes the subscription.
type engineStoppedMsg struct{}

// pageLoadedMsg fires when the engine releases a scroll signal.
type pageLoadedMsg struct {
	epoch uint64
}

type probeResultMsg struct {
	id  string
	err error
}

type detailRenderedMsg struct {
	id      string
	content string
}

type filterDebounceMsg struct {
	seq int
}

type filterResultsMsg struct {
	query string
	ids   map[string]struct{}
	err   error
}

type openedMsg struct {
	player string
	title  string
}

type errorMsg struct {
	err error
}
