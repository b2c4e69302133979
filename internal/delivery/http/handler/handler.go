package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/user/og-image-service/internal/delivery/http/response"
	"github.com/user/og-image-service/internal/ogimage"
	"github.com/user/og-image-service/internal/repository"
	"github.com/user/og-image-service/internal/usecase"
	"github.com/user/og-image-service/pkg/metrics"
)

const (
	cacheControl       = "public, s-maxage=86400, stale-while-revalidate=43200"
	svgContentType     = "image/svg+xml; charset=utf-8"
	svgCSP             = "default-src 'none'; sandbox; style-src 'unsafe-inline'; img-src 'self' data:"
	defaultContentType = "image/jpeg"

	defaultFailuresLimit = 50
)

type Handler struct {
	proxy           usecase.ImageProxy
	logger          *zap.Logger
	placeholderPath string
	maxSVGBytes     int64
}

func NewHandler(proxy usecase.ImageProxy, logger *zap.Logger, placeholderPath string, maxSVGBytes int64) *Handler {
	metrics.Init()
	return &Handler{
		proxy:           proxy,
		logger:          logger,
		placeholderPath: placeholderPath,
		maxSVGBytes:     maxSVGBytes,
	}
}

// HandleOGImage serves GET /api/og-image?url=<target>. Every failure, including
// a panic before the response starts, becomes a 302 to the placeholder.
func (h *Handler) HandleOGImage(w http.ResponseWriter, r *http.Request) {
	started := false
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if rec == http.ErrAbortHandler {
			panic(rec)
		}
		h.logger.Error("Recovered from panic in og-image handler", zap.Any("panic", rec), zap.Bool("response_started", started))
		if !started {
			h.redirectToPlaceholder(w, r)
		}
	}()

	img, err := h.proxy.Lookup(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		h.redirectToPlaceholder(w, r)
		return
	}
	defer img.Body.Close()

	if img.IsSVG() {
		body, err := io.ReadAll(io.LimitReader(img.Body, h.maxSVGBytes+1))
		if err != nil {
			h.logger.Info("Failed to read SVG body", zap.String("image", img.URL), zap.Error(err))
			h.redirectToPlaceholder(w, r)
			return
		}
		if int64(len(body)) > h.maxSVGBytes {
			h.logger.Info("SVG exceeds size limit", zap.String("image", img.URL), zap.Error(repository.ErrBodyTooLarge))
			h.redirectToPlaceholder(w, r)
			return
		}

		clean := ogimage.SanitizeSVG(string(body))
		metrics.SVGSanitizedTotal.Inc()

		w.Header().Set("Content-Type", svgContentType)
		w.Header().Set("Cache-Control", cacheControl)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", svgCSP)
		w.Header().Set("Content-Length", strconv.Itoa(len(clean)))
		started = true
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, clean)
		return
	}

	contentType := img.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	started = true
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, img.Body); err != nil {
		// Headers are already out; nothing left to do but log.
		h.logger.Warn("Image stream interrupted", zap.String("image", img.URL), zap.Error(err))
	}
}

// HandleListFailures serves GET /api/og-image/failures?limit=N.
func (h *Handler) HandleListFailures(w http.ResponseWriter, r *http.Request) {
	limit := defaultFailuresLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	lookups, err := h.proxy.ListFailures(r.Context(), limit)
	if err != nil {
		if errors.Is(err, usecase.ErrLedgerDisabled) {
			h.writeJSONError(w, "failed-lookup ledger is not enabled", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to list failed lookups", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.NewFailuresResponse(lookups))
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}

func (h *Handler) redirectToPlaceholder(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.placeholderPath, http.StatusFound)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Error: message})
}
