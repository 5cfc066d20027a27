package parser

import "strings"

// lineReplacer maps the dash and glyph artifacts PDF renderers leave in
// statement text onto plain ASCII.
var lineReplacer = strings.NewReplacer(
	"\u2013", "-", // en dash
	"\u2212", "-", // minus sign
	"\u29eb", "", // black lozenge, used as a bullet on Amex statements
	"\u00a0", " ", // non-breaking space
)

// normalizeLine canonicalizes one line of extracted text. It is idempotent.
func normalizeLine(s string) string {
	return strings.TrimSpace(lineReplacer.Replace(s))
}

// splitLines flattens page text into one line slice for the whole document.
func splitLines(pages []string) []string {
	var lines []string
	for _, page := range pages {
		if page == "" {
			continue
		}
		lines = append(lines, strings.Split(page, "\n")...)
	}
	return lines
}

// collapseSpaces joins whitespace runs into single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
