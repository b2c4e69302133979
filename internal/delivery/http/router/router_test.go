package router

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/og-image-service/internal/adapter/httpfetch"
	"github.com/user/og-image-service/internal/delivery/http/handler"
	"github.com/user/og-image-service/internal/usecase"
)

var iconBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 'i', 'c', 'o', 'n'}

// newUpstream fakes a repository page that only declares an apple-touch-icon.
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/user/repo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<!DOCTYPE html><html><head><title>user/repo</title>
			<link rel="stylesheet" href="/site.css">
			<link rel="apple-touch-icon" href="/apple-touch-icon.png">
		</head><body><img src="/not-this.png"></body></html>`)
	})
	mux.HandleFunc("/apple-touch-icon.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(iconBytes)
	})
	mux.HandleFunc("/logo-page", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<meta property="og:image" content="/logo.svg">`)
	})
	mux.HandleFunc("/logo.svg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		fmt.Fprint(w, `<svg><script>alert(1)</script><rect onload="x()"/></svg>`)
	})
	mux.HandleFunc("/broken-image", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<meta property="og:image" content="/missing.png">`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestServer(t *testing.T, staticDir string) *httptest.Server {
	t.Helper()
	fetcher := httpfetch.New(httpfetch.Options{
		UserAgent:    "Mozilla/5.0 test",
		PageTimeout:  2 * time.Second,
		ImageTimeout: 2 * time.Second,
	})
	proxy := usecase.NewImageProxy(zap.NewNop(), fetcher, nil, fetcher, nil, nil, usecase.Options{Mode: usecase.PageModeStatic})
	h := handler.NewHandler(proxy, zap.NewNop(), "/window.svg", 1<<20)

	server := httptest.NewServer(New(h, zap.NewNop(), Options{PlaceholderPath: "/window.svg", StaticDir: staticDir}))
	t.Cleanup(server.Close)
	return server
}

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
}

func ogImageURL(server *httptest.Server, target string) string {
	return server.URL + "/api/og-image?url=" + url.QueryEscape(target)
}

func TestOGImage_IconWhenNoMetadata(t *testing.T) {
	upstream := newUpstream(t)
	server := newTestServer(t, "")

	resp, err := noRedirectClient().Get(ogImageURL(server, upstream.URL+"/user/repo"))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, iconBytes, body)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestOGImage_RepeatedCallsAreIdentical(t *testing.T) {
	upstream := newUpstream(t)
	server := newTestServer(t, "")

	var bodies [][]byte
	for i := 0; i < 2; i++ {
		resp, err := noRedirectClient().Get(ogImageURL(server, upstream.URL+"/user/repo"))
		require.NoError(t, err)
		b, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		bodies = append(bodies, b)
	}
	assert.Equal(t, bodies[0], bodies[1])
}

func TestOGImage_SVGIsSanitized(t *testing.T) {
	upstream := newUpstream(t)
	server := newTestServer(t, "")

	resp, err := noRedirectClient().Get(ogImageURL(server, upstream.URL+"/logo-page"))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "<svg><rect/></svg>", string(body))
	assert.Equal(t, "image/svg+xml; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))
}

func TestOGImage_FallbackRedirects(t *testing.T) {
	upstream := newUpstream(t)
	server := newTestServer(t, "")

	cases := map[string]string{
		"missing param":      server.URL + "/api/og-image",
		"not a url":          server.URL + "/api/og-image?url=not-a-url",
		"unsupported scheme": ogImageURL(server, "ftp://example.com/file"),
		"page 404":           ogImageURL(server, upstream.URL+"/nope"),
		"image 404":          ogImageURL(server, upstream.URL+"/broken-image"),
		"no candidate":       ogImageURL(server, upstream.URL+"/apple-touch-icon.png"),
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			resp, err := noRedirectClient().Get(target)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, "/window.svg", resp.Header.Get("Location"))
		})
	}
}

func TestRouter_SiteSurface(t *testing.T) {
	server := newTestServer(t, "")

	resp, err := http.Get(server.URL + "/window.svg")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "<svg")

	resp, err = http.Get(server.URL + "/api/health")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "http_requests_total")

	resp, err = http.Get(server.URL + "/api/og-image/failures")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(server.URL + "/index.html")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_StaticDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>portfolio</h1>"), 0o644))
	server := newTestServer(t, dir)

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "portfolio")

	resp, err = http.Get(server.URL + "/window.svg")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "image/svg+xml")
}
