package reddit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/debuglog"
	"github.com/pders01/gifr/internal/feed"
)

// RSSSource reads subreddit listings from the Atom feed. Entries carry no
// hosted video metadata, so only direct media links resolve.
type RSSSource struct {
	client    *http.Client
	parser    *gofeed.Parser
	limiter   *rate.Limiter
	host      string
	sort      string
	limit     int
	userAgent string
}

func NewRSSSource(cfg config.FeedConfig) *RSSSource {
	c := NewClient(cfg)
	return &RSSSource{
		client:    c.client,
		parser:    gofeed.NewParser(),
		limiter:   c.limiter,
		host:      c.host,
		sort:      c.sort,
		limit:     c.limit,
		userAgent: c.userAgent,
	}
}

// Feed fetches and parses one page of the listing feed.
func (s *RSSSource) Feed(ctx context.Context, term, after string) (*gofeed.Feed, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	u := listingURL(s.host, term, s.sort, "rss", s.limit, after)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	parsed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}
	return parsed, nil
}

func (s *RSSSource) FetchPage(ctx context.Context, term, after string) []feed.MediaItem {
	parsed, err := s.Feed(ctx, term, after)
	if err != nil {
		debuglog.WithFields(map[string]interface{}{
			"term":  term,
			"after": after,
		}).Warnf("rss fetch failed: %v", err)
		return []feed.MediaItem{}
	}

	items := make([]feed.MediaItem, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		src := entrySource(entry)
		if src == "" {
			continue
		}
		items = append(items, feed.MediaItem{
			SourceURL: src,
			Author:    entryAuthor(entry),
			Permalink: entryPermalink(entry.Link),
			Name:      entry.GUID,
			Title:     entry.Title,
			Thumbnail: entryThumbnail(entry),
		})
	}
	return items
}

// entrySource returns the first enclosure or content link that resolves
// to a playable URL.
func entrySource(item *gofeed.Item) string {
	for _, link := range mediaLinks(item) {
		if src := resolveLink(link); src != "" {
			return src
		}
	}
	return ""
}

func mediaLinks(item *gofeed.Item) []string {
	var links []string
	for _, enclosure := range item.Enclosures {
		if enclosure.URL != "" {
			links = append(links, enclosure.URL)
		}
	}
	content := item.Content + " " + item.Description
	links = append(links, findMediaInHTML(content)...)
	return links
}

// findMediaInHTML lists video sources before anchor targets.
func findMediaInHTML(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	var urls []string
	collect := func(selector, attr string) {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			if v, ok := sel.Attr(attr); ok && v != "" {
				urls = append(urls, v)
			}
		})
	}
	collect("video[src], source[src]", "src")
	collect("a[href]", "href")
	return urls
}

func entryAuthor(item *gofeed.Item) string {
	var name string
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		name = item.Authors[0].Name
	} else if item.Author != nil {
		name = item.Author.Name
	}
	return strings.TrimPrefix(name, "/u/")
}

// entryPermalink reduces an absolute comments link to its path, matching
// the permalink form of the JSON listing.
func entryPermalink(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Path == "" {
		return link
	}
	return u.Path
}

func entryThumbnail(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		if thumbs := media["thumbnail"]; len(thumbs) > 0 {
			if u := thumbs[0].Attrs["url"]; u != "" {
				return u
			}
		}
	}
	if item.Image != nil {
		return item.Image.URL
	}
	return ""
}
