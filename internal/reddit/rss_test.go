package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const atomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:media="http://search.yahoo.com/mrss/">
  <title>gifs</title>
  <entry>
    <author><name>/u/alice</name><uri>https://www.reddit.com/user/alice</uri></author>
    <content type="html">&lt;a href=&quot;https://www.reddit.com/user/alice&quot;&gt;/u/alice&lt;/a&gt; &lt;a href=&quot;https://i.imgur.com/abc.gifv&quot;&gt;[link]&lt;/a&gt;</content>
    <id>t3_abc</id>
    <media:thumbnail url="https://b.thumbs.redditmedia.com/abc.jpg" />
    <link href="https://www.reddit.com/r/gifs/comments/abc/funny/" />
    <title>Funny</title>
  </entry>
  <entry>
    <author><name>/u/bob</name></author>
    <content type="html">&lt;a href=&quot;https://www.reddit.com/r/gifs/comments/def/text/&quot;&gt;[link]&lt;/a&gt;</content>
    <id>t3_def</id>
    <link href="https://www.reddit.com/r/gifs/comments/def/text/" />
    <title>Text only</title>
  </entry>
  <entry>
    <author><name>/u/carol</name></author>
    <content type="html">&lt;video src=&quot;https://cdn.example.com/clip.webm&quot;&gt;&lt;/video&gt;</content>
    <id>t3_ghi</id>
    <link href="https://www.reddit.com/r/gifs/comments/ghi/clip/" />
    <title>Clip</title>
  </entry>
</feed>`

func TestRSSSource_FetchPage(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(atomFeed))
	}))
	defer server.Close()

	src := NewRSSSource(testFeedConfig(server.URL))
	items := src.FetchPage(context.Background(), "gifs", "t3_prev")

	assert.Equal(t, "/r/gifs/hot/.rss", gotPath)
	assert.Equal(t, "limit=100&after=t3_prev", gotQuery)

	require.Len(t, items, 2, "entry without media is dropped")

	first := items[0]
	assert.Equal(t, "https://i.imgur.com/abc.mp4", first.SourceURL)
	assert.Equal(t, "alice", first.Author)
	assert.Equal(t, "/r/gifs/comments/abc/funny/", first.Permalink)
	assert.Equal(t, "t3_abc", first.Name)
	assert.Equal(t, "Funny", first.Title)
	assert.Equal(t, "https://b.thumbs.redditmedia.com/abc.jpg", first.Thumbnail)

	assert.Equal(t, "https://cdn.example.com/clip.mp4", items[1].SourceURL)
	assert.Equal(t, "t3_ghi", items[1].Name)
}

func TestRSSSource_FetchPageSwallowsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a feed"))
	}))
	defer server.Close()

	src := NewRSSSource(testFeedConfig(server.URL))
	items := src.FetchPage(context.Background(), "gifs", "")
	assert.NotNil(t, items)
	assert.Empty(t, items)

	_, err := src.Feed(context.Background(), "gifs", "")
	assert.Error(t, err)
}

func TestFindMediaInHTML(t *testing.T) {
	html := `<video src="https://a.example.com/v.mp4"></video>
<a href="https://i.imgur.com/x.gifv?a=1&amp;b=2">[link]</a>`

	assert.Equal(t, []string{
		"https://a.example.com/v.mp4",
		"https://i.imgur.com/x.gifv?a=1&b=2",
	}, findMediaInHTML(html))
}

func TestEntryPermalink(t *testing.T) {
	assert.Equal(t, "/r/gifs/comments/a/x/", entryPermalink("https://www.reddit.com/r/gifs/comments/a/x/"))
	assert.Equal(t, "", entryPermalink(""))
}
