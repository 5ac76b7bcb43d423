package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/gifr/internal/feed"
)

func sampleItems() []feed.MediaItem {
	return []feed.MediaItem{
		{Permalink: "/r/gifs/comments/1/", Title: "Cat jumps into a box", Author: "whiskers", SourceURL: "https://i.imgur.com/cat.mp4"},
		{Permalink: "/r/gifs/comments/2/", Title: "Dog catches frisbee", Author: "rover", SourceURL: "https://v.redd.it/dog/DASH_720.mp4"},
		{Permalink: "/r/gifs/comments/3/", Title: "Rocket landing", Author: "spacefan", SourceURL: "https://i.imgur.com/rocket.mp4"},
	}
}

func newIndex(t *testing.T) *ItemIndex {
	t.Helper()
	idx, err := NewItemIndex()
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func ids(results []*Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func TestItemIndex_SearchByTitle(t *testing.T) {
	idx := newIndex(t)
	require.NoError(t, idx.Index(sampleItems()))

	res, err := idx.Search("rocket", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "/r/gifs/comments/3/", res[0].ID)
	assert.Equal(t, "Rocket landing", res[0].Title)
}

func TestItemIndex_PrefixAndAuthor(t *testing.T) {
	idx := newIndex(t)
	require.NoError(t, idx.Index(sampleItems()))

	res, err := idx.Search("frisb", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"/r/gifs/comments/2/"}, ids(res))

	res, err = idx.Search("whiskers", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"/r/gifs/comments/1/"}, ids(res))
}

func TestItemIndex_TitleOutranksOtherFields(t *testing.T) {
	idx := newIndex(t)
	require.NoError(t, idx.Index([]feed.MediaItem{
		{Permalink: "a", Title: "Nothing here", Author: "catlover"},
		{Permalink: "b", Title: "Cat video", Author: "someone"},
	}))

	res, err := idx.Search("cat", 10)
	require.NoError(t, err)
	require.NotEmpty(t, res)
	assert.Equal(t, "b", res[0].ID)
}

func TestItemIndex_ShortQueryMatchesNothing(t *testing.T) {
	idx := newIndex(t)
	require.NoError(t, idx.Index(sampleItems()))

	for _, q := range []string{"", " ", "c"} {
		res, err := idx.Search(q, 10)
		require.NoError(t, err)
		assert.Empty(t, res, "query %q", q)
	}
}

func TestItemIndex_ReindexReplaces(t *testing.T) {
	idx := newIndex(t)
	items := sampleItems()
	require.NoError(t, idx.Index(items))
	require.NoError(t, idx.Index(items[:1]))

	n, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestItemIndex_Reset(t *testing.T) {
	idx := newIndex(t)
	require.NoError(t, idx.Index(sampleItems()))

	require.NoError(t, idx.Reset())

	n, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	res, err := idx.Search("rocket", 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestItemIndex_IndexEmpty(t *testing.T) {
	idx := newIndex(t)
	assert.NoError(t, idx.Index(nil))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"cat", "jumps", "box"}, tokenize("Cat jumps! a box"))
	assert.Empty(t, tokenize("a b c"))
}

var _ Searcher = (*ItemIndex)(nil)
var _ DebugStatser = (*ItemIndex)(nil)
