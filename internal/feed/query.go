package feed

import "strings"

// Query shapes raw search input into committed terms.
//
// Input hands out a ticket per keystroke; the runtime fires the ticket after
// the debounce window. Only the newest ticket can commit, and only when the
// normalized value differs from the last committed term.
type Query struct {
	fallback  string
	normalize func(string) string

	committed    string
	hasCommitted bool
	pending      string
	ticket       uint64
}

// NewQuery builds a Query whose current value is initial. An empty input
// normalizes to the initial value.
func NewQuery(initial string, normalize func(string) string) *Query {
	if normalize == nil {
		normalize = strings.TrimSpace
	}
	q := &Query{normalize: normalize}
	q.fallback = q.clean(initial)
	q.pending = q.fallback
	return q
}

func (q *Query) clean(raw string) string {
	term := q.normalize(raw)
	if term == "" {
		return q.fallback
	}
	return term
}

// Start commits the current value immediately, without waiting for the
// debounce window, so the feed loads on startup.
func (q *Query) Start() string {
	q.committed = q.pending
	q.hasCommitted = true
	return q.committed
}

// Input records raw as the pending value and returns its debounce ticket.
func (q *Query) Input(raw string) uint64 {
	q.pending = q.clean(raw)
	q.ticket++
	return q.ticket
}

// Fire is called when the debounce window of ticket elapses.
func (q *Query) Fire(ticket uint64) (string, bool) {
	if ticket != q.ticket {
		return "", false
	}
	if q.hasCommitted && q.pending == q.committed {
		return "", false
	}
	q.committed = q.pending
	q.hasCommitted = true
	return q.committed, true
}

// Committed returns the last committed term.
func (q *Query) Committed() string {
	return q.committed
}
