package entity

import (
	"io"
	"mime"
	"net/url"
	"strings"
)

// PageDocument is the fetched HTML of a target page. It only lives for one lookup.
type PageDocument struct {
	URL      *url.URL // base for resolving relative image references
	HTML     string
	Rendered bool // produced by the headless browser
}

// ImageResource is an open upstream image response. The caller owns Body.
type ImageResource struct {
	URL         string
	ContentType string
	Body        io.ReadCloser
}

// IsSVG reports whether the declared content type is image/svg+xml.
func (r *ImageResource) IsSVG() bool {
	mediaType, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.SplitN(r.ContentType, ";", 2)[0])
	}
	return strings.EqualFold(mediaType, "image/svg+xml")
}
