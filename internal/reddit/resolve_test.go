package reddit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func video(u string) *Video { return &Video{FallbackURL: u} }

func TestResolveSourceURL(t *testing.T) {
	tests := []struct {
		name string
		post Post
		want string
	}{
		{
			name: "mp4 unchanged",
			post: Post{URL: "https://i.example.com/a.mp4"},
			want: "https://i.example.com/a.mp4",
		},
		{
			name: "gifv rewritten",
			post: Post{URL: "https://i.imgur.com/abc.gifv"},
			want: "https://i.imgur.com/abc.mp4",
		},
		{
			name: "webm rewritten",
			post: Post{URL: "https://i.example.com/clip.webm"},
			want: "https://i.example.com/clip.mp4",
		},
		{
			name: "mp4 beats hosted video",
			post: Post{
				URL:         "https://i.example.com/a.mp4",
				SecureMedia: &Media{RedditVideo: video("https://v.redd.it/x/DASH_720.mp4")},
			},
			want: "https://i.example.com/a.mp4",
		},
		{
			name: "secure media fallback used verbatim",
			post: Post{
				URL:         "https://v.redd.it/x",
				SecureMedia: &Media{RedditVideo: video("https://v.redd.it/x/DASH_720.mp4?source=fallback")},
				Media:       &Media{RedditVideo: video("https://v.redd.it/x/DASH_360.mp4")},
			},
			want: "https://v.redd.it/x/DASH_720.mp4?source=fallback",
		},
		{
			name: "media fallback when secure media missing",
			post: Post{
				URL:   "https://v.redd.it/y",
				Media: &Media{RedditVideo: video("https://v.redd.it/y/DASH_480.mp4")},
			},
			want: "https://v.redd.it/y/DASH_480.mp4",
		},
		{
			name: "preview fallback last",
			post: Post{
				URL:         "https://i.example.com/a.gif",
				SecureMedia: &Media{},
				Preview:     &Preview{RedditVideoPreview: video("https://v.redd.it/z/DASH_240.mp4")},
			},
			want: "https://v.redd.it/z/DASH_240.mp4",
		},
		{
			name: "unresolvable",
			post: Post{URL: "https://i.example.com/picture.jpg"},
			want: "",
		},
		{
			name: "empty post",
			post: Post{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSourceURL(tt.post))
		})
	}
}

func TestResolveLinkIgnoresHostedVideo(t *testing.T) {
	assert.Equal(t, "https://i.imgur.com/a.mp4", resolveLink("https://i.imgur.com/a.gifv"))
	assert.Equal(t, "", resolveLink("https://www.reddit.com/r/gifs/comments/abc/"))
}
