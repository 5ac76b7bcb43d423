package feed

import "sort"

// LoadTracker records which items have their heavy payload loading or
// loaded. It is a value type: every mutation returns a new tracker and
// leaves the receiver untouched.
type LoadTracker struct {
	loading map[string]struct{}
	loaded  map[string]struct{}
}

func NewLoadTracker() LoadTracker {
	return LoadTracker{
		loading: map[string]struct{}{},
		loaded:  map[string]struct{}{},
	}
}

func cloneSet(s map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// MarkLoading adds id to the loading set. Adding an id twice is a no-op.
func (t LoadTracker) MarkLoading(id string) LoadTracker {
	loading := cloneSet(t.loading)
	loading[id] = struct{}{}
	return LoadTracker{loading: loading, loaded: cloneSet(t.loaded)}
}

// MarkLoaded adds id to the loaded set and then drops every loaded id from
// the loading set, not just id. A completion therefore also clears any
// other finished item still marked as loading.
func (t LoadTracker) MarkLoaded(id string) LoadTracker {
	loaded := cloneSet(t.loaded)
	loaded[id] = struct{}{}

	loading := make(map[string]struct{}, len(t.loading))
	for k := range t.loading {
		if _, done := loaded[k]; !done {
			loading[k] = struct{}{}
		}
	}
	return LoadTracker{loading: loading, loaded: loaded}
}

// IsLoading reports whether id is loading and not yet loaded.
func (t LoadTracker) IsLoading(id string) bool {
	if _, ok := t.loading[id]; !ok {
		return false
	}
	_, done := t.loaded[id]
	return !done
}

func (t LoadTracker) IsLoaded(id string) bool {
	_, ok := t.loaded[id]
	return ok
}

// LoadingIDs returns the raw loading set, sorted.
func (t LoadTracker) LoadingIDs() []string {
	return sortedKeys(t.loading)
}

// LoadedIDs returns the loaded set, sorted.
func (t LoadTracker) LoadedIDs() []string {
	return sortedKeys(t.loaded)
}

func sortedKeys(s map[string]struct{}) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
