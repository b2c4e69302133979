// Package static holds the assets compiled into the binary.
package static

import (
	_ "embed"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

//go:embed window.svg
var windowSVG []byte

// PlaceholderSVG returns the fallback image served at the placeholder path.
func PlaceholderSVG() []byte {
	return windowSVG
}

// PlaceholderHandler serves the embedded placeholder. A file with the same
// name in dir, when dir is set, takes precedence.
func PlaceholderHandler(dir, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dir != "" {
			path := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(name, "/")))
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				http.ServeFile(w, r, path)
				return
			}
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Write(windowSVG)
	}
}
