package analyzer

import "regexp"

// Stripped before persistence when clean_html is enabled: scripts, styles,
// comments, and elements carrying ad-network class or id markers.
var (
	scriptRe  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe   = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	commentRe = regexp.MustCompile(`(?s)<!--.*?-->`)

	adTagRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<[^>]*class="[^"]*(?:ad|advertisement|banner)[^"]*"[^>]*>`),
		regexp.MustCompile(`(?i)<[^>]*id="[^"]*(?:ad|advertisement|banner)[^"]*"[^>]*>`),
		regexp.MustCompile(`(?i)<[^>]*class="[^"]*(?:google|facebook|twitter)[^"]*"[^>]*>`),
	}
)

// CleanHTML removes scripts, inline styles, comments, and ad markup from a
// raw HTML body. The result is for archival, not re-rendering.
func CleanHTML(htmlBody []byte) []byte {
	out := scriptRe.ReplaceAll(htmlBody, nil)
	out = styleRe.ReplaceAll(out, nil)
	out = commentRe.ReplaceAll(out, nil)
	for _, re := range adTagRes {
		out = re.ReplaceAll(out, nil)
	}
	return out
}
