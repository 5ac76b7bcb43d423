package reddit

import "strings"

// ResolveSourceURL picks a playable video URL for a post. Direct .mp4 links
// win, .gifv and .webm links are rewritten to .mp4, then the hosted video
// fallbacks are tried in order. It returns "" when nothing is playable.
func ResolveSourceURL(p Post) string {
	switch {
	case strings.Contains(p.URL, ".mp4"):
		return p.URL
	case strings.Contains(p.URL, ".gifv"):
		return strings.Replace(p.URL, ".gifv", ".mp4", 1)
	case strings.Contains(p.URL, ".webm"):
		return strings.Replace(p.URL, ".webm", ".mp4", 1)
	}

	if u := p.SecureMedia.fallback(); u != "" {
		return u
	}
	if u := p.Media.fallback(); u != "" {
		return u
	}
	return p.Preview.fallback()
}

// resolveLink applies only the extension rules. Feeds without hosted
// video metadata (RSS) go through this.
func resolveLink(link string) string {
	return ResolveSourceURL(Post{URL: link})
}
