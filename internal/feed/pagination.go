package feed

// ScrollSignal is the presentation layer's completion handle. The engine
// calls it once the fetch started for that pagination has finished.
type ScrollSignal func()

// Pagination is the cursor state for the current term. The zero value is
// the reset state published on every term commit.
type Pagination struct {
	After      string
	TotalFound int
	Retries    int
	Signal     ScrollSignal
}

// ResetPagination returns the state published when a term is committed.
func ResetPagination() Pagination {
	return Pagination{}
}

// Advance moves the cursor past lastToken. The caller guarantees the
// feed holds at least one item; lastToken is the Name of the last one.
func (p Pagination) Advance(lastToken string, signal ScrollSignal) Pagination {
	return Pagination{
		After:      lastToken,
		TotalFound: 0,
		Retries:    0,
		Signal:     signal,
	}
}

func (p Pagination) complete() {
	if p.Signal != nil {
		p.Signal()
	}
}
