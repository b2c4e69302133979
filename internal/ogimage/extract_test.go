package ogimage

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func base(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse("https://example.com/blog/post")
	require.NoError(t, err)
	return u
}

func TestExtractImageURL_PrefersOpenGraphOverTwitter(t *testing.T) {
	html := `<html><head>
		<meta name="twitter:image" content="https://example.com/twitter.png">
		<meta property="og:image" content="https://example.com/og.png">
		<link rel="icon" href="/favicon.ico">
	</head></html>`

	assert.Equal(t, "https://example.com/og.png", ExtractImageURL(html, base(t)))
}

func TestExtract_Tiers(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		want   string
		source Source
	}{
		{
			name:   "og image with content first",
			html:   `<meta content="/og.png" property="og:image">`,
			want:   "https://example.com/og.png",
			source: SourceOpenGraph,
		},
		{
			name:   "og image single quotes and mixed case",
			html:   `<META PROPERTY='OG:Image' CONTENT='//cdn.example.com/og.jpg'>`,
			want:   "https://cdn.example.com/og.jpg",
			source: SourceOpenGraph,
		},
		{
			name:   "twitter image",
			html:   `<meta name="twitter:image" content="../img/tw.png">`,
			want:   "https://example.com/img/tw.png",
			source: SourceTwitter,
		},
		{
			name:   "twitter image src",
			html:   `<meta content="https://img.example.org/card.png" name="twitter:image:src">`,
			want:   "https://img.example.org/card.png",
			source: SourceTwitter,
		},
		{
			name:   "apple touch icon",
			html:   `<link href="/apple-touch-icon.png" rel="apple-touch-icon">`,
			want:   "https://example.com/apple-touch-icon.png",
			source: SourceIcon,
		},
		{
			name:   "shortcut icon",
			html:   `<link rel="shortcut icon" href="favicon.ico">`,
			want:   "https://example.com/blog/favicon.ico",
			source: SourceIcon,
		},
		{
			name:   "first icon in document order wins",
			html:   `<link rel="icon" href="/a.png"><link rel="apple-touch-icon" href="/b.png">`,
			want:   "https://example.com/a.png",
			source: SourceIcon,
		},
		{
			name:   "first og image wins",
			html:   `<meta property="og:image" content="/first.png"><meta property="og:image" content="/second.png">`,
			want:   "https://example.com/first.png",
			source: SourceOpenGraph,
		},
		{
			name:   "empty og content falls through to the next og tag",
			html:   `<meta property="og:image" content=""><meta property="og:image" content="/real.png">`,
			want:   "https://example.com/real.png",
			source: SourceOpenGraph,
		},
		{
			name:   "entities in attribute values are decoded",
			html:   `<meta property="og:image" content="/img?a=1&amp;b=2">`,
			want:   "https://example.com/img?a=1&b=2",
			source: SourceOpenGraph,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := Extract(tt.html, base(t))
			require.True(t, ok)
			assert.Equal(t, tt.want, m.URL)
			assert.Equal(t, tt.source, m.Source)
		})
	}
}

func TestExtractImageURL_NoCandidate(t *testing.T) {
	tests := map[string]string{
		"empty document":     ``,
		"unrelated meta":     `<meta name="description" content="hello"><meta property="og:title" content="x">`,
		"stylesheet link":    `<link rel="stylesheet" href="/site.css">`,
		"other icon rel":     `<link rel="mask-icon" href="/mask.svg">`,
		"og without content": `<meta property="og:image">`,
	}

	for name, html := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, ExtractImageURL(html, base(t)))
		})
	}
}

func TestExtractImageURL_IconWhenNoMetadata(t *testing.T) {
	html := `<!doctype html><html><head><title>user/repo</title>
		<link rel="apple-touch-icon" href="https://github.githubassets.com/apple-touch-icon.png">
	</head><body><img src="/not-this.png"></body></html>`

	u, err := url.Parse("https://github.com/user/repo")
	require.NoError(t, err)
	assert.Equal(t, "https://github.githubassets.com/apple-touch-icon.png", ExtractImageURL(html, u))
}
