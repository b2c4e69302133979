package usecase

//go:generate mockgen -source=og_image_usecase.go -destination=mocks/mock_og_image_usecase.go -package=mock_usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ryanuber/go-glob"
	"go.uber.org/zap"

	"github.com/user/og-image-service/internal/entity"
	"github.com/user/og-image-service/internal/ogimage"
	"github.com/user/og-image-service/internal/repository"
	"github.com/user/og-image-service/pkg/metrics"
	"github.com/user/og-image-service/pkg/utils"
)

var (
	ErrInvalidTarget  = errors.New("target is not an absolute http(s) URL")
	ErrHostNotAllowed = errors.New("host is not in the allow-list")
	ErrRateLimited    = errors.New("upstream host rate limit exceeded")
	ErrNoImageFound   = errors.New("page declares no usable image")
	ErrLedgerDisabled = errors.New("failed-lookup ledger is not configured")
)

const (
	ledgerTimeout   = 3 * time.Second
	maxFailureLimit = 500
)

// PageMode selects how the target page's HTML is obtained.
type PageMode string

const (
	PageModeStatic  PageMode = "static"
	PageModeBrowser PageMode = "browser"
	PageModeAuto    PageMode = "auto"
)

// LookupError is a failed lookup, tagged with the stage it stopped at.
type LookupError struct {
	Stage entity.Stage
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// ImageProxy defines the interface for turning a page URL into its representative image.
type ImageProxy interface {
	// Lookup resolves the page's image and opens it. The caller must close the body.
	Lookup(ctx context.Context, rawURL string) (*entity.ImageResource, error)
	// ResolveImageURL runs the page fetch and extraction only.
	ResolveImageURL(ctx context.Context, rawURL string) (ogimage.Match, error)
	// ListFailures returns the most recent failed lookups, newest first.
	ListFailures(ctx context.Context, limit int) ([]*entity.FailedLookup, error)
}

// Options tunes the pipeline.
type Options struct {
	Mode         PageMode
	AllowedHosts []string // glob patterns; empty allows every host
}

type imageProxyUseCase struct {
	logger       *zap.Logger
	pageFetcher  repository.PageFetcher
	renderer     repository.PageFetcher
	imageFetcher repository.ImageFetcher
	rateLimiter  repository.RateLimiter
	ledger       repository.FailedLookupRepository
	mode         PageMode
	allowedHosts []string
}

// NewImageProxy creates a new instance of the image proxy use case.
// renderer is required for the browser and auto modes; rateLimiter and
// ledger may be nil to disable those features.
func NewImageProxy(
	logger *zap.Logger,
	pageFetcher repository.PageFetcher,
	renderer repository.PageFetcher,
	imageFetcher repository.ImageFetcher,
	rateLimiter repository.RateLimiter,
	ledger repository.FailedLookupRepository,
	opts Options,
) ImageProxy {
	metrics.Init()

	mode := opts.Mode
	if mode == "" || (mode != PageModeStatic && renderer == nil) {
		mode = PageModeStatic
	}
	patterns := make([]string, 0, len(opts.AllowedHosts))
	for _, p := range opts.AllowedHosts {
		patterns = append(patterns, strings.ToLower(p))
	}

	return &imageProxyUseCase{
		logger:       logger,
		pageFetcher:  pageFetcher,
		renderer:     renderer,
		imageFetcher: imageFetcher,
		rateLimiter:  rateLimiter,
		ledger:       ledger,
		mode:         mode,
		allowedHosts: patterns,
	}
}

func (uc *imageProxyUseCase) Lookup(ctx context.Context, rawURL string) (*entity.ImageResource, error) {
	match, err := uc.resolve(ctx, rawURL)
	if err != nil {
		uc.handleFailure(ctx, rawURL, err)
		return nil, err
	}

	startTime := time.Now()
	img, fetchErr := uc.imageFetcher.FetchImage(ctx, match.URL)
	metrics.UpstreamFetchDuration.WithLabelValues(string(entity.StageFetchImage)).Observe(time.Since(startTime).Seconds())
	if fetchErr != nil {
		err := &LookupError{Stage: entity.StageFetchImage, Err: fetchErr}
		uc.handleFailure(ctx, rawURL, err)
		return nil, err
	}

	uc.handleSuccess(ctx, rawURL, match, img)
	return img, nil
}

func (uc *imageProxyUseCase) ResolveImageURL(ctx context.Context, rawURL string) (ogimage.Match, error) {
	return uc.resolve(ctx, rawURL)
}

func (uc *imageProxyUseCase) ListFailures(ctx context.Context, limit int) ([]*entity.FailedLookup, error) {
	if uc.ledger == nil {
		return nil, ErrLedgerDisabled
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > maxFailureLimit {
		limit = maxFailureLimit
	}
	lookups, err := uc.ledger.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list failed lookups: %w", err)
	}
	return lookups, nil
}

// resolve validates the target and runs the page and extraction stages.
func (uc *imageProxyUseCase) resolve(ctx context.Context, rawURL string) (ogimage.Match, error) {
	target, ok := utils.ParseHTTPURL(rawURL)
	if !ok {
		return ogimage.Match{}, &LookupError{Stage: entity.StageValidate, Err: ErrInvalidTarget}
	}

	host := target.Hostname()
	if !uc.hostAllowed(host) {
		return ogimage.Match{}, &LookupError{Stage: entity.StageHostPolicy, Err: fmt.Errorf("%w: %s", ErrHostNotAllowed, host)}
	}

	if uc.rateLimiter != nil {
		allowed, err := uc.rateLimiter.Allow(ctx, host)
		if err != nil {
			uc.logger.Warn("Rate limiter unavailable, allowing fetch", zap.String("host", host), zap.Error(err))
		} else if !allowed {
			return ogimage.Match{}, &LookupError{Stage: entity.StageRateLimit, Err: fmt.Errorf("%w: %s", ErrRateLimited, host)}
		}
	}

	match, err := uc.fetchAndExtract(ctx, target)
	if err != nil {
		return ogimage.Match{}, err
	}

	imageURL, err := url.Parse(match.URL)
	if err != nil || !uc.hostAllowed(imageURL.Hostname()) {
		return ogimage.Match{}, &LookupError{Stage: entity.StageHostPolicy, Err: fmt.Errorf("%w: image %s", ErrHostNotAllowed, match.URL)}
	}
	return match, nil
}

func (uc *imageProxyUseCase) fetchAndExtract(ctx context.Context, target *url.URL) (ogimage.Match, error) {
	first := uc.mode
	if first == PageModeAuto {
		first = PageModeStatic
	}

	match, err := uc.fetchAndExtractWith(ctx, first, target)
	if err == nil || uc.mode != PageModeAuto {
		return match, err
	}

	uc.logger.Debug("Static lookup missed, rendering page", zap.String("target", target.String()), zap.Error(err))
	rendered, renderErr := uc.fetchAndExtractWith(ctx, PageModeBrowser, target)
	if renderErr == nil {
		return rendered, nil
	}

	var staticErr *LookupError
	if errors.As(err, &staticErr) && staticErr.Stage == entity.StageFetchPage {
		var renderLookupErr *LookupError
		if errors.As(renderErr, &renderLookupErr) && renderLookupErr.Stage == entity.StageFetchPage {
			return ogimage.Match{}, &LookupError{Stage: entity.StageFetchPage, Err: errors.Join(staticErr.Err, renderLookupErr.Err)}
		}
		return ogimage.Match{}, renderErr
	}
	return ogimage.Match{}, err
}

func (uc *imageProxyUseCase) fetchAndExtractWith(ctx context.Context, mode PageMode, target *url.URL) (ogimage.Match, error) {
	fetcher, label := uc.pageFetcher, "fetch_page"
	if mode == PageModeBrowser {
		fetcher, label = uc.renderer, "render_page"
	}

	startTime := time.Now()
	doc, err := fetcher.FetchPage(ctx, target)
	metrics.UpstreamFetchDuration.WithLabelValues(label).Observe(time.Since(startTime).Seconds())
	if err != nil {
		return ogimage.Match{}, &LookupError{Stage: entity.StageFetchPage, Err: err}
	}

	match, ok := ogimage.Extract(doc.HTML, doc.URL)
	if !ok {
		return ogimage.Match{}, &LookupError{Stage: entity.StageExtract, Err: ErrNoImageFound}
	}
	return match, nil
}

func (uc *imageProxyUseCase) hostAllowed(host string) bool {
	if len(uc.allowedHosts) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for _, pattern := range uc.allowedHosts {
		if glob.Glob(pattern, host) {
			return true
		}
	}
	return false
}

func (uc *imageProxyUseCase) handleSuccess(ctx context.Context, rawURL string, match ogimage.Match, img *entity.ImageResource) {
	metrics.LookupsTotal.WithLabelValues("delivered", "").Inc()
	uc.logger.Debug("Resolved og image",
		zap.String("lookup_id", utils.HashURL(rawURL)),
		zap.String("target", rawURL),
		zap.String("image", match.URL),
		zap.String("source", string(match.Source)),
		zap.String("content_type", img.ContentType),
	)

	if uc.ledger == nil {
		return
	}
	ledgerCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ledgerTimeout)
	defer cancel()
	if err := uc.ledger.Delete(ledgerCtx, strings.TrimSpace(rawURL)); err != nil {
		// This is not a critical error, just log it.
		uc.logger.Warn("Failed to clear failed lookup after success", zap.String("target", rawURL), zap.Error(err))
	}
}

func (uc *imageProxyUseCase) handleFailure(ctx context.Context, rawURL string, err error) {
	stage := StageOf(err)
	metrics.LookupsTotal.WithLabelValues("fallback", string(stage)).Inc()
	uc.logger.Info("Falling back to placeholder",
		zap.String("lookup_id", utils.HashURL(rawURL)),
		zap.String("stage", string(stage)),
		zap.String("target", rawURL),
		zap.Error(err),
	)

	// Garbage input is not worth a ledger row.
	if uc.ledger == nil || stage == entity.StageValidate {
		return
	}

	var httpStatusCode int
	var statusErr *repository.StatusError
	if errors.As(err, &statusErr) {
		httpStatusCode = statusErr.StatusCode
	}

	failed := &entity.FailedLookup{
		TargetURL:      strings.TrimSpace(rawURL),
		Stage:          stage,
		FailureReason:  err.Error(),
		HTTPStatusCode: httpStatusCode,
		LastAttemptAt:  time.Now().UTC(),
	}

	ledgerCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ledgerTimeout)
	defer cancel()
	if err := uc.ledger.SaveOrUpdate(ledgerCtx, failed); err != nil {
		uc.logger.Warn("Failed to record failed lookup", zap.String("target", rawURL), zap.Error(err))
	}
}

// StageOf returns the stage a lookup error stopped at, or "" for other errors.
func StageOf(err error) entity.Stage {
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Stage
	}
	return ""
}
