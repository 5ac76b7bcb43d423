package feed

// Accumulator concatenates the pages of one term. It never reorders or
// deduplicates, and each Append builds a fresh backing array so slices
// handed out earlier stay valid.
type Accumulator struct {
	items []MediaItem
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Append returns accumulated ++ page.
func (a *Accumulator) Append(page []MediaItem) []MediaItem {
	next := make([]MediaItem, 0, len(a.items)+len(page))
	next = append(next, a.items...)
	next = append(next, page...)
	a.items = next
	return next
}

func (a *Accumulator) Items() []MediaItem {
	return a.items
}

func (a *Accumulator) Len() int {
	return len(a.items)
}
