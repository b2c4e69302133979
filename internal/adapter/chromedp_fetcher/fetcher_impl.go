package chromedp_fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/og-image-service/internal/entity"
	"github.com/user/og-image-service/internal/repository"
)

// ChromedpFetcher renders pages in headless Chrome and returns the resulting DOM.
type ChromedpFetcher struct {
	logger    *zap.Logger
	timeout   time.Duration
	userAgent string

	allocOnce   sync.Once
	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabs        chan struct{}
}

var _ repository.PageFetcher = (*ChromedpFetcher)(nil)

// NewChromedpFetcher creates a PageFetcher backed by chromedp. The browser
// process starts lazily on the first render; at most maxTabs pages render at once.
func NewChromedpFetcher(logger *zap.Logger, userAgent string, maxTabs int, renderTimeout time.Duration) *ChromedpFetcher {
	if maxTabs <= 0 {
		maxTabs = 1
	}
	return &ChromedpFetcher{
		logger:    logger,
		timeout:   renderTimeout,
		userAgent: userAgent,
		tabs:      make(chan struct{}, maxTabs),
	}
}

func (c *ChromedpFetcher) allocator() context.Context {
	c.allocOnce.Do(func() {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(c.userAgent),
		)
		c.allocCtx, c.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	})
	return c.allocCtx
}

// FetchPage navigates to target and returns the rendered outer HTML.
func (c *ChromedpFetcher) FetchPage(ctx context.Context, target *url.URL) (*entity.PageDocument, error) {
	select {
	case c.tabs <- struct{}{}:
		defer func() { <-c.tabs }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	taskCtx, cancel := chromedp.NewContext(c.allocator(), chromedp.WithLogf(c.logger.Sugar().Debugf))
	defer cancel()

	// Tie the tab to the caller as well as to the render deadline.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if c.timeout > 0 {
		taskCtx, cancel = context.WithTimeout(taskCtx, c.timeout)
		defer cancel()
	}

	var (
		mu         sync.Mutex
		statusCode int
	)
	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok || resp.Type != network.ResourceTypeDocument {
			return
		}
		// The main frame's document arrives before any iframe's.
		mu.Lock()
		if statusCode == 0 {
			statusCode = int(resp.Response.Status)
		}
		mu.Unlock()
	})

	var html string
	startTime := time.Now()
	err := chromedp.Run(taskCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Cache-Control": "no-store"}),
		chromedp.Navigate(target.String()),
		chromedp.WaitReady("head", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	elapsed := time.Since(startTime)

	if err != nil {
		c.logger.Debug("Browser render failed", zap.String("url", target.String()), zap.Duration("elapsed", elapsed), zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(taskCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("render %s: %w", target, repository.ErrRenderTimeout)
		}
		return nil, fmt.Errorf("render %s: %w: %v", target, repository.ErrNavigationFailed, err)
	}

	mu.Lock()
	code := statusCode
	mu.Unlock()
	if code != 0 && (code < 200 || code > 299) {
		return nil, fmt.Errorf("render %s: %w", target, &repository.StatusError{StatusCode: code})
	}

	c.logger.Debug("Rendered page", zap.String("url", target.String()), zap.Duration("elapsed", elapsed), zap.Int("html_bytes", len(html)))

	return &entity.PageDocument{
		URL:      target,
		HTML:     html,
		Rendered: true,
	}, nil
}

// Close shuts down the browser process, if one was started.
func (c *ChromedpFetcher) Close() {
	if c.allocCancel != nil {
		c.allocCancel()
	}
}
