package render

import (
	"html"
	"log/slog"
	"regexp"
	"strings"
)

// The reducer is a fixed cascade of string transformation passes. It only
// has to produce readable fallback text, so it deliberately trades parser
// fidelity for predictability on malformed input.
var (
	scriptPattern = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	stylePattern  = regexp.MustCompile(`(?is)<style\b.*?</style>`)

	imgCIDAltPattern = regexp.MustCompile(`(?is)<img[^>]*?src="cid:[^"]*"[^>]*?alt="([^"]*)"[^>]*?>`)
	imgAltPattern    = regexp.MustCompile(`(?is)<img[^>]*?alt="([^"]*)"[^>]*?>`)
	imgPattern       = regexp.MustCompile(`(?is)<img[^>]*?>`)

	linkPattern = regexp.MustCompile(`(?is)<a[^>]*?href="([^"]*)"[^>]*?>(.*?)</a>`)

	blockClosePattern = regexp.MustCompile(`(?i)</(?:div|p|h[1-6]|tr|li)[^>]*?>`)
	brPattern         = regexp.MustCompile(`(?i)<br\b[^>]*?>`)
	liOpenPattern     = regexp.MustCompile(`(?i)<li\b[^>]*?>`)
	tdOpenPattern     = regexp.MustCompile(`(?i)<td\b[^>]*?>`)

	emphasisPattern = regexp.MustCompile(`(?i)</?(?:b|strong|h[1-6])\b[^>]*?>`)
	italicPattern   = regexp.MustCompile(`(?i)</?(?:i|em)\b[^>]*?>`)

	anyTagPattern = regexp.MustCompile(`<[^>]*?>`)

	blankRunPattern = regexp.MustCompile(`\n\s*\n`)
	spaceRunPattern = regexp.MustCompile(`[ \t]+`)
)

// ReduceToText degrades HTML markup into readable plain text. It never
// fails: if a pass panics on pathological input, the original markup is
// blunt-stripped instead so a result is always returned.
func ReduceToText(bodyHTML string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("text reduction failed, using blunt strip", "panic", r)
			text = strings.TrimSpace(anyTagPattern.ReplaceAllString(bodyHTML, " "))
		}
	}()

	content := bodyHTML

	// Drop script and style blocks including their contents.
	content = scriptPattern.ReplaceAllString(content, "")
	content = stylePattern.ReplaceAllString(content, "")

	// Images become bracketed placeholders, keeping alt text when present.
	content = imgCIDAltPattern.ReplaceAllString(content, "[Image: $1]")
	content = imgAltPattern.ReplaceAllString(content, "[Image: $1]")
	content = imgPattern.ReplaceAllString(content, "[Image]")

	// Links become "TEXT (URL)".
	content = linkPattern.ReplaceAllString(content, "$2 ($1)")

	// Closing block tags and <br> approximate block flow with newlines.
	content = blockClosePattern.ReplaceAllString(content, "\n")
	content = brPattern.ReplaceAllString(content, "\n")

	// List items get a bullet, table cells a separator.
	content = liOpenPattern.ReplaceAllString(content, "* ")
	content = tdOpenPattern.ReplaceAllString(content, " | ")

	// Crude emphasis markers, unmatched by design.
	content = emphasisPattern.ReplaceAllString(content, "*")
	content = italicPattern.ReplaceAllString(content, "_")

	// Strip whatever tags remain, then decode entities.
	content = anyTagPattern.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	// Normalize whitespace.
	content = blankRunPattern.ReplaceAllString(content, "\n\n")
	content = spaceRunPattern.ReplaceAllString(content, " ")

	return strings.TrimSpace(content)
}
