package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/og-image-service/internal/adapter/chromedp_fetcher"
	"github.com/user/og-image-service/internal/adapter/httpfetch"
	"github.com/user/og-image-service/internal/adapter/postgres"
	redis_adapter "github.com/user/og-image-service/internal/adapter/redis"
	"github.com/user/og-image-service/internal/repository"
	"github.com/user/og-image-service/internal/usecase"
	"github.com/user/og-image-service/pkg/config"
)

const connectTimeout = 5 * time.Second

// app holds the wired use case and the resources to release on exit.
type app struct {
	proxy   usecase.ImageProxy
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	// --- Outbound fetchers ---
	proxies, err := httpfetch.NewProxyPool(cfg.OutboundProxyURLs())
	if err != nil {
		return nil, err
	}
	fetcher := httpfetch.New(httpfetch.Options{
		UserAgent:    cfg.UserAgent,
		PageTimeout:  cfg.PageFetchTimeout(),
		ImageTimeout: cfg.ImageFetchTimeout(),
		MaxHTMLBytes: cfg.MaxHTMLBytes,
		Proxies:      proxies,
	})
	if proxies.Len() > 0 {
		logger.Info("Outbound proxies configured", zap.Int("count", proxies.Len()))
	}

	var renderer repository.PageFetcher
	if cfg.PageFetchMode != config.PageFetchStatic {
		chrome := chromedp_fetcher.NewChromedpFetcher(logger, cfg.UserAgent, cfg.BrowserMaxTabs, cfg.BrowserTimeout())
		a.closers = append(a.closers, chrome.Close)
		renderer = chrome
		logger.Info("Headless browser rendering enabled", zap.String("mode", cfg.PageFetchMode))
	}

	// --- Failed-lookup ledger (PostgreSQL) ---
	var ledger repository.FailedLookupRepository
	if cfg.PostgresURL != "" {
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("unable to create database pool: %w", err)
		}
		a.closers = append(a.closers, dbpool.Close)

		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if err := dbpool.Ping(pingCtx); err != nil {
			a.Close()
			return nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		repo := postgres.NewFailedLookupRepo(dbpool)
		if err := repo.EnsureSchema(pingCtx); err != nil {
			a.Close()
			return nil, fmt.Errorf("unable to prepare failed_lookups table: %w", err)
		}
		ledger = repo
		logger.Info("PostgreSQL failed-lookup ledger enabled")
	}

	// --- Upstream rate limiter (Redis) ---
	var limiter repository.RateLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.closers = append(a.closers, func() { rdb.Close() })

		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			// The limiter fails open, so an unreachable Redis only costs the limit.
			logger.Warn("Redis unreachable at startup, rate limiting will fail open", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		limiter = redis_adapter.NewRateLimiter(rdb, cfg.UpstreamRateLimit, cfg.UpstreamRateWindow())
		logger.Info("Redis upstream rate limiter enabled",
			zap.Int64("limit", cfg.UpstreamRateLimit),
			zap.Duration("window", cfg.UpstreamRateWindow()),
		)
	}

	a.proxy = usecase.NewImageProxy(logger, fetcher, renderer, fetcher, limiter, ledger, usecase.Options{
		Mode:         usecase.PageMode(cfg.PageFetchMode),
		AllowedHosts: cfg.AllowedHostPatterns(),
	})
	return a, nil
}
