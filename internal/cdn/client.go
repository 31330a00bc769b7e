package cdn

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/time/rate"
)

// ErrStatus is wrapped by StatusError.
var ErrStatus = errors.New("unexpected HTTP status")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Options tune the HTTP client.
type Options struct {
	RateLimit float64 // requests per second
	Burst     int
	Timeout   time.Duration
	UserAgent string
}

// Client fetches datasets from the CDN over HTTP.
type Client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
	ua      string
	log     *slog.Logger
}

// NewClient creates a Client rooted at base, e.g.
// https://wakfu.cdn.ankama.com/gamedata.
func NewClient(base string, opts Options, log *slog.Logger) *Client {
	hc := cleanhttp.DefaultPooledClient()
	if opts.Timeout > 0 {
		hc.Timeout = opts.Timeout
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "wakfu-craft-sync/1"
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		http:    hc,
		limiter: rate.NewLimiter(limit, burst),
		ua:      ua,
		log:     log,
	}
}

func (c *Client) Version(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.base+"/config.json")
	if err != nil {
		return "", fmt.Errorf("fetch config: %w", err)
	}
	defer body.Close()

	var doc configDoc
	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		return "", fmt.Errorf("parse config: %w", err)
	}
	if doc.Version == "" {
		return "", fmt.Errorf("parse config: empty version")
	}
	return doc.Version, nil
}

func (c *Client) Open(ctx context.Context, version, dataset string) (io.ReadCloser, error) {
	body, err := c.get(ctx, c.base+"/"+DatasetPath(version, dataset))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", dataset, err)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br, gzip")
	req.Header.Set("User-Agent", c.ua)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	c.log.Debug("cdn response",
		"url", url,
		"encoding", resp.Header.Get("Content-Encoding"),
		"length", resp.ContentLength,
		"elapsed", time.Since(start),
	)

	return decodeBody(resp)
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "br":
		return readCloser{Reader: brotli.NewReader(resp.Body), close: resp.Body.Close}, nil
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("gzip body: %w", err)
		}
		return readCloser{Reader: zr, close: func() error {
			zr.Close()
			return resp.Body.Close()
		}}, nil
	default:
		return resp.Body, nil
	}
}
