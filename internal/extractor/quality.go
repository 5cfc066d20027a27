package extractor

import (
	"strings"
	"unicode"
)

// textQuality returns the share of characters that are ASCII letters,
// digits, whitespace or statement punctuation, in [0, 1]. Accented letters
// from the Portuguese statements count as readable; private-use and
// control runes from identity-encoded fonts do not.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if isStatementRune(r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func isStatementRune(r rune) bool {
	switch {
	case r < unicode.MaxASCII:
		return unicode.IsPrint(r) || unicode.IsSpace(r)
	case unicode.Is(unicode.Latin, r):
		return true
	}
	return strings.ContainsRune("\u2013\u2212\u20ac\u00a3\u00a0", r)
}

// commonWords appear on every card statement the parsers handle. Text
// containing none of them is almost certainly mis-decoded.
var commonWords = []string{
	"card", "account", "balance", "date", "payment", "statement",
	"total", "amount", "transaction", "closing", "ending", "page",
	"fatura", "cartão", "cartao", "data", "histórico", "valor", "nome",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires more than 50 characters of text, over 60%
// readable runes, and at least one statement word.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
