package httpfetch

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/user/og-image-service/internal/entity"
	"github.com/user/og-image-service/internal/repository"
)

const defaultMaxHTMLBytes = 2 << 20

const (
	acceptHTML  = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptImage = "image/avif,image/webp,image/apng,image/svg+xml,image/*,*/*;q=0.8"
)

// Options configures a Fetcher.
type Options struct {
	UserAgent    string
	PageTimeout  time.Duration
	ImageTimeout time.Duration
	MaxHTMLBytes int64
	Proxies      *ProxyPool
}

// Fetcher performs the page and image GETs over plain net/http.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	pageTimeout  time.Duration
	imageTimeout time.Duration
	maxHTMLBytes int64
}

var (
	_ repository.PageFetcher  = (*Fetcher)(nil)
	_ repository.ImageFetcher = (*Fetcher)(nil)
)

// New creates a Fetcher with a browser-like transport.
func New(opts Options) *Fetcher {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	if opts.Proxies != nil && opts.Proxies.Len() > 0 {
		transport.Proxy = opts.Proxies.ProxyFunc
	}

	return newWithClient(&http.Client{Transport: transport}, opts)
}

func newWithClient(client *http.Client, opts Options) *Fetcher {
	if opts.MaxHTMLBytes <= 0 {
		opts.MaxHTMLBytes = defaultMaxHTMLBytes
	}
	return &Fetcher{
		client:       client,
		userAgent:    opts.UserAgent,
		pageTimeout:  opts.PageTimeout,
		imageTimeout: opts.ImageTimeout,
		maxHTMLBytes: opts.MaxHTMLBytes,
	}
}

// FetchPage downloads target and returns up to MaxHTMLBytes of its body.
// Longer pages are truncated; the metadata lives in the head.
func (f *Fetcher) FetchPage(ctx context.Context, target *url.URL) (*entity.PageDocument, error) {
	ctx, cancel := withOptionalTimeout(ctx, f.pageTimeout)
	defer cancel()

	resp, err := f.get(ctx, target.String(), acceptHTML)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxHTMLBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read page body from %s: %w", target, err)
	}

	return &entity.PageDocument{
		URL:  target,
		HTML: string(body),
	}, nil
}

// FetchImage opens imageURL. The returned body keeps the fetch deadline
// running until it is closed.
func (f *Fetcher) FetchImage(ctx context.Context, imageURL string) (*entity.ImageResource, error) {
	ctx, cancel := withOptionalTimeout(ctx, f.imageTimeout)

	resp, err := f.get(ctx, imageURL, acceptImage)
	if err != nil {
		cancel()
		return nil, err
	}

	// Peek so a declared zero length and an empty chunked body fail the same way.
	body := bufio.NewReader(resp.Body)
	if _, err := body.Peek(1); err != nil {
		resp.Body.Close()
		cancel()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("image %s: %w", imageURL, repository.ErrEmptyBody)
		}
		return nil, fmt.Errorf("failed to read image body from %s: %w", imageURL, err)
	}

	return &entity.ImageResource{
		URL:         imageURL,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        &cancelOnClose{Reader: body, closer: resp.Body, cancel: cancel},
	}, nil
}

// get issues a GET with browser headers and no-store semantics; non-2xx responses are errors.
func (f *Fetcher) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", rawURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %w", rawURL, &repository.StatusError{StatusCode: resp.StatusCode})
	}
	return resp, nil
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

type cancelOnClose struct {
	io.Reader
	closer io.Closer
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.closer.Close()
	c.cancel()
	return err
}
