package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/debuglog"
	"github.com/pders01/gifr/internal/feed"
)

const (
	defaultUserAgent = "gifr/1.0 (https://github.com/pders01/gifr)"
	defaultTimeout   = 30 * time.Second
	defaultLimit     = 100
	defaultSort      = "hot"
)

// Client reads subreddit listings from the JSON API.
type Client struct {
	client    *http.Client
	limiter   *rate.Limiter
	host      string
	sort      string
	limit     int
	userAgent string
}

// NewClient builds a listing client from the feed config. A zero rate
// limit disables pacing.
func NewClient(cfg config.FeedConfig) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	sort := cfg.Sort
	if sort == "" {
		sort = defaultSort
	}
	limit := cfg.PageLimit
	if limit <= 0 {
		limit = defaultLimit
	}

	return &Client{
		client:    &http.Client{Timeout: timeout},
		limiter:   newLimiter(cfg.RateLimit),
		host:      strings.TrimRight(cfg.Host, "/"),
		sort:      sort,
		limit:     limit,
		userAgent: ua,
	}
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// listingURL builds {host}/r/{term}/{sort}/.{ext}?limit=N[&after=cursor].
func listingURL(host, term, sort, ext string, limit int, after string) string {
	q := "limit=" + strconv.Itoa(limit)
	if after != "" {
		q += "&after=" + url.QueryEscape(after)
	}
	return fmt.Sprintf("%s/r/%s/%s/.%s?%s", host, url.PathEscape(term), sort, ext, q)
}

// Listing fetches one page of the listing for term.
func (c *Client) Listing(ctx context.Context, term, after string) (*Listing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	u := listingURL(c.host, term, c.sort, "json", c.limit, after)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	var listing Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decoding listing: %w", err)
	}
	return &listing, nil
}

// FetchPage returns the playable items of one listing page. Errors are
// logged and yield an empty page.
func (c *Client) FetchPage(ctx context.Context, term, after string) []feed.MediaItem {
	listing, err := c.Listing(ctx, term, after)
	if err != nil {
		debuglog.WithFields(map[string]interface{}{
			"term":  term,
			"after": after,
		}).Warnf("listing fetch failed: %v", err)
		return []feed.MediaItem{}
	}
	return ToMediaItems(listing)
}

// ToMediaItems maps listing entries to media items, dropping entries with
// no playable source.
func ToMediaItems(l *Listing) []feed.MediaItem {
	if l == nil {
		return []feed.MediaItem{}
	}
	items := make([]feed.MediaItem, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		p := child.Data
		src := ResolveSourceURL(p)
		if src == "" {
			continue
		}
		items = append(items, feed.MediaItem{
			SourceURL: src,
			Author:    p.Author,
			Permalink: p.Permalink,
			Name:      p.Name,
			Title:     p.Title,
			Thumbnail: p.Thumbnail,
			Comments:  p.NumComments,
		})
	}
	return items
}
