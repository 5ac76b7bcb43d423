package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// MaxTermLength bounds a subreddit name. Longer input is truncated.
const MaxTermLength = 64

// NormalizeTerm turns free-form search input into a listing term. It
// accepts bare names, "r/name" and full subreddit URLs, drops characters
// that cannot appear in a subreddit path and lowercases the rest. "+" is
// kept so multireddits ("gifs+aww") work. The result may be empty.
func NormalizeTerm(raw string) string {
	term := strings.TrimSpace(raw)
	term = extractSubreddit(term)

	var b strings.Builder
	for _, r := range term {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '+':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
		if b.Len() >= MaxTermLength {
			break
		}
	}
	return strings.Trim(b.String(), "+")
}

// extractSubreddit pulls the name out of "r/name/..." or a URL pointing at
// a subreddit. Anything else is returned unchanged.
func extractSubreddit(s string) string {
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil {
			s = u.Path
		}
	}
	s = strings.TrimPrefix(s, "/")

	if i := strings.Index(s, "r/"); i == 0 || (i > 0 && s[i-1] == '/') {
		s = s[i+2:]
	} else if i >= 0 {
		return s
	}
	if end := strings.IndexByte(s, '/'); end >= 0 {
		s = s[:end]
	}
	return s
}

// ValidateTerm reports whether raw normalizes to a usable term. The engine
// itself never rejects input; this is for the CLI and settings form.
func ValidateTerm(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("term cannot be empty")
	}
	term := NormalizeTerm(raw)
	if term == "" {
		return "", fmt.Errorf("term %q contains no valid subreddit characters", raw)
	}
	if len(term) < 2 {
		return "", fmt.Errorf("term %q is too short", term)
	}
	return term, nil
}
