package feed

import "context"

// MediaItem is one resolved feed entry with a playable source URL.
// Permalink is the stable identity; Name is the listing cursor token.
// Loading and DataLoaded are overlaid by Compose and never stored.
type MediaItem struct {
	SourceURL  string `json:"src"`
	Author     string `json:"author"`
	Permalink  string `json:"permalink"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	Thumbnail  string `json:"thumbnail"`
	Comments   int    `json:"comments"`
	Loading    bool   `json:"loading"`
	DataLoaded bool   `json:"dataLoaded"`
}

// ID returns the key the load tracker uses for this item.
func (m MediaItem) ID() string {
	return m.Permalink
}

// PageFetcher fetches one page of media for a term.
//
// Implementations never return an error: a failed request yields an empty
// page so the feed keeps going. Callers cannot tell "no results" from
// "upstream failed" at this layer.
type PageFetcher interface {
	FetchPage(ctx context.Context, term, after string) []MediaItem
}

// PageFetcherFunc adapts a function to the PageFetcher interface.
type PageFetcherFunc func(ctx context.Context, term, after string) []MediaItem

func (f PageFetcherFunc) FetchPage(ctx context.Context, term, after string) []MediaItem {
	return f(ctx, term, after)
}
