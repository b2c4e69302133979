package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
)

var absoluteHTTP = regexp.MustCompile(`(?i)^https?://`)

var quoteStripper = strings.NewReplacer(`"`, "", `'`, "")

// HashURL creates a SHA256 hash of a URL string.
// This is useful for creating consistent, safe keys for Redis.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// AbsoluteURL resolves a candidate found in page markup against the page URL.
// Protocol-relative candidates take the base scheme, root-relative ones the
// base origin, and everything else resolves against the full base URL.
// It returns "" when no usable URL can be produced.
func AbsoluteURL(candidate string, base *url.URL) string {
	if candidate == "" || base == nil {
		return ""
	}
	trimmed := quoteStripper.Replace(strings.TrimSpace(candidate))
	if trimmed == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(trimmed, "//"):
		return base.Scheme + ":" + trimmed
	case absoluteHTTP.MatchString(trimmed):
		return trimmed
	case strings.HasPrefix(trimmed, "/"):
		return Origin(base) + trimmed
	}

	ref, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// Origin returns scheme://host[:port] of u.
func Origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// ParseHTTPURL parses raw and accepts it only as an absolute http(s) URL with a host.
func ParseHTTPURL(raw string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, false
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return nil, false
	}
	return u, true
}
