// Package ogimage picks a representative image out of a page and cleans SVG payloads.
package ogimage

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/og-image-service/pkg/utils"
)

// Source names the tier an extracted image URL came from.
type Source string

const (
	SourceOpenGraph Source = "og:image"
	SourceTwitter   Source = "twitter:image"
	SourceIcon      Source = "icon"
)

// Match is a resolved image candidate.
type Match struct {
	URL    string
	Source Source
}

var iconRels = map[string]bool{
	"icon":             true,
	"shortcut icon":    true,
	"apple-touch-icon": true,
}

// ExtractImageURL returns the best representative image for a page, or "" when
// none is declared. Tiers are tried in order (og:image, twitter:image, icon
// links); inside a tier the first element in document order with a usable
// value wins.
func ExtractImageURL(html string, base *url.URL) string {
	m, ok := Extract(html, base)
	if !ok {
		return ""
	}
	return m.URL
}

// Extract is ExtractImageURL with the winning tier reported.
func Extract(html string, base *url.URL) (Match, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Match{}, false
	}

	tiers := []struct {
		source Source
		find   func(*goquery.Document, *url.URL) string
	}{
		{SourceOpenGraph, findOpenGraph},
		{SourceTwitter, findTwitter},
		{SourceIcon, findIcon},
	}
	for _, tier := range tiers {
		if found := tier.find(doc, base); found != "" {
			return Match{URL: found, Source: tier.source}, true
		}
	}
	return Match{}, false
}

func findOpenGraph(doc *goquery.Document, base *url.URL) string {
	return firstMeta(doc, base, "property", "og:image")
}

func findTwitter(doc *goquery.Document, base *url.URL) string {
	return firstMeta(doc, base, "name", "twitter:image", "twitter:image:src")
}

func firstMeta(doc *goquery.Document, base *url.URL, attr string, values ...string) string {
	var found string
	doc.Find("meta").EachWithBreak(func(i int, s *goquery.Selection) bool {
		key, _ := s.Attr(attr)
		if !equalsAny(key, values) {
			return true
		}
		content, _ := s.Attr("content")
		found = utils.AbsoluteURL(content, base)
		return found == ""
	})
	return found
}

func findIcon(doc *goquery.Document, base *url.URL) string {
	var found string
	doc.Find("link").EachWithBreak(func(i int, s *goquery.Selection) bool {
		rel, _ := s.Attr("rel")
		if !iconRels[strings.ToLower(strings.TrimSpace(rel))] {
			return true
		}
		href, _ := s.Attr("href")
		found = utils.AbsoluteURL(href, base)
		return found == ""
	})
	return found
}

func equalsAny(s string, values []string) bool {
	s = strings.TrimSpace(s)
	for _, v := range values {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
