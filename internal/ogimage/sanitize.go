package ogimage

import "regexp"

var (
	scriptBlock       = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>|<script\b[^>]*/>`)
	eventHandlerAttr  = regexp.MustCompile(`(?i)[\s/]+on[a-z]+\s*=\s*(?:"[^"]*"|'[^']*')`)
	jsURLDoubleQuoted = regexp.MustCompile(`(?i)((?:xlink:)?href|src)\s*=\s*"\s*javascript:[^"]*"`)
	jsURLSingleQuoted = regexp.MustCompile(`(?i)((?:xlink:)?href|src)\s*=\s*'\s*javascript:[^']*'`)
)

// SanitizeSVG removes active content from SVG markup. It is best effort and
// not a security boundary; on any internal failure the input comes back unchanged.
func SanitizeSVG(svg string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = svg
		}
	}()

	out = scriptBlock.ReplaceAllString(svg, "")
	out = eventHandlerAttr.ReplaceAllString(out, "")
	out = jsURLDoubleQuoted.ReplaceAllString(out, `${1}=""`)
	out = jsURLSingleQuoted.ReplaceAllString(out, `${1}=""`)
	return out
}
