package media

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const defaultProbeTimeout = 10 * time.Second

// Prober checks that a media source is reachable before it is marked as
// loaded.
type Prober struct {
	client    *http.Client
	userAgent string
}

func NewProber(timeout time.Duration, userAgent string) *Prober {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &Prober{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Probe issues a HEAD request for url. Hosts that refuse HEAD get a
// single-byte ranged GET instead.
func (p *Prober) Probe(ctx context.Context, url string) error {
	status, err := p.do(ctx, http.MethodHead, url)
	if err != nil {
		return err
	}
	if status == http.StatusMethodNotAllowed || status == http.StatusForbidden {
		status, err = p.do(ctx, http.MethodGet, url)
		if err != nil {
			return err
		}
	}
	if status >= 400 {
		return fmt.Errorf("HTTP error: %d", status)
	}
	return nil
}

func (p *Prober) do(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	if method == http.MethodGet {
		req.Header.Set("Range", "bytes=0-0")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("probing %s: %w", url, err)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
