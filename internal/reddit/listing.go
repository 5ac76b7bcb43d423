package reddit

// Listing mirrors the subset of a subreddit listing response gifr reads.
type Listing struct {
	Kind string `json:"kind"`
	Data struct {
		After    string  `json:"after"`
		Before   string  `json:"before"`
		Children []Child `json:"children"`
	} `json:"data"`
}

type Child struct {
	Kind string `json:"kind"`
	Data Post   `json:"data"`
}

// Post is one listing entry.
type Post struct {
	Author      string   `json:"author"`
	Name        string   `json:"name"` // fullname, e.g. "t3_abc123"
	Permalink   string   `json:"permalink"`
	Title       string   `json:"title"`
	Thumbnail   string   `json:"thumbnail"`
	NumComments int      `json:"num_comments"`
	URL         string   `json:"url"`
	SecureMedia *Media   `json:"secure_media"`
	Media       *Media   `json:"media"`
	Preview     *Preview `json:"preview"`
}

type Media struct {
	RedditVideo *Video `json:"reddit_video"`
}

type Preview struct {
	RedditVideoPreview *Video `json:"reddit_video_preview"`
}

type Video struct {
	FallbackURL string `json:"fallback_url"`
	Height      int    `json:"height"`
	Width       int    `json:"width"`
	IsGIF       bool   `json:"is_gif"`
}

func (m *Media) fallback() string {
	if m == nil || m.RedditVideo == nil {
		return ""
	}
	return m.RedditVideo.FallbackURL
}

func (p *Preview) fallback() string {
	if p == nil || p.RedditVideoPreview == nil {
		return ""
	}
	return p.RedditVideoPreview.FallbackURL
}
