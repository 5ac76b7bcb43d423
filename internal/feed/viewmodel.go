package feed

import "sort"

// ViewModel is one complete snapshot for the presentation layer. Each
// snapshot replaces the previous one entirely.
type ViewModel struct {
	Term         string
	Epoch        uint64
	Items        []MediaItem
	FetchingPage bool
	SettingsOpen bool
	Favorites    []string
}

// IsFavorite reports whether term is in the snapshot's favorites.
func (vm ViewModel) IsFavorite(term string) bool {
	i := sort.SearchStrings(vm.Favorites, term)
	return i < len(vm.Favorites) && vm.Favorites[i] == term
}

// LastToken returns the cursor token of the last item, or "" when empty.
func (vm ViewModel) LastToken() string {
	if len(vm.Items) == 0 {
		return ""
	}
	return vm.Items[len(vm.Items)-1].Name
}

// Flags carries the ambient state that is not derived from the feed.
type Flags struct {
	Term         string
	Epoch        uint64
	FetchingPage bool
	SettingsOpen bool
	Favorites    map[string]struct{}
}

// Compose overlays the load flags on items and bundles them with the
// ambient flags. It allocates new item records and never mutates its inputs.
func Compose(items []MediaItem, tracker LoadTracker, flags Flags) ViewModel {
	out := make([]MediaItem, len(items))
	for i, item := range items {
		id := item.ID()
		item.Loading = tracker.IsLoading(id)
		item.DataLoaded = tracker.IsLoaded(id)
		out[i] = item
	}

	return ViewModel{
		Term:         flags.Term,
		Epoch:        flags.Epoch,
		Items:        out,
		FetchingPage: flags.FetchingPage,
		SettingsOpen: flags.SettingsOpen,
		Favorites:    sortedKeys(flags.Favorites),
	}
}
