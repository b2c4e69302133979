package chromedp_fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/og-image-service/internal/repository"
)

func requireBrowser(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping chromedp integration tests")
	}
	for _, name := range []string{"headless-shell", "chromium", "chromium-browser", "google-chrome", "google-chrome-stable"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no Chrome binary on PATH")
}

func TestChromedpFetcher_RendersScriptInjectedMetadata(t *testing.T) {
	requireBrowser(t)

	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><script>
			var m = document.createElement("meta");
			m.setAttribute("property", "og:image");
			m.setAttribute("content", "/rendered.png");
			document.head.appendChild(m);
		</script></head><body></body></html>`))
	}))
	defer server.Close()

	f := NewChromedpFetcher(zap.NewNop(), "og-test-agent/1.0", 1, 15*time.Second)
	defer f.Close()

	target, err := url.Parse(server.URL + "/app")
	require.NoError(t, err)

	doc, err := f.FetchPage(context.Background(), target)
	require.NoError(t, err)
	assert.True(t, doc.Rendered)
	assert.Contains(t, doc.HTML, `content="/rendered.png"`)
	assert.Equal(t, "og-test-agent/1.0", gotUA)
}

func TestChromedpFetcher_NonSuccessDocument(t *testing.T) {
	requireBrowser(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	f := NewChromedpFetcher(zap.NewNop(), "og-test-agent/1.0", 1, 15*time.Second)
	defer f.Close()

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	_, err = f.FetchPage(context.Background(), target)
	assert.ErrorIs(t, err, repository.ErrUpstreamStatus)
}

func TestChromedpFetcher_CanceledContext(t *testing.T) {
	f := NewChromedpFetcher(zap.NewNop(), "og-test-agent/1.0", 1, time.Second)
	defer f.Close()

	// Occupy the only tab so the call has to wait on the context.
	f.tabs <- struct{}{}
	defer func() { <-f.tabs }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	target, _ := url.Parse("http://example.com")
	_, err := f.FetchPage(ctx, target)
	assert.ErrorIs(t, err, context.Canceled)
}
