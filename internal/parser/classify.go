package parser

import (
	"regexp"
	"strings"
)

// LineClass labels a statement line for the extraction loop.
type LineClass int

const (
	ClassContinuation LineClass = iota
	ClassCardholderHeader
	ClassFeesStart
	ClassInterestStart
	ClassSectionEnd
	ClassPageFooter
	ClassSkipPrefix
	ClassTransactionStart
)

var lineClassNames = map[LineClass]string{
	ClassContinuation:     "continuation",
	ClassCardholderHeader: "cardholder-header",
	ClassFeesStart:        "fees-start",
	ClassInterestStart:    "interest-start",
	ClassSectionEnd:       "section-end",
	ClassPageFooter:       "page-footer",
	ClassSkipPrefix:       "skip-prefix",
	ClassTransactionStart: "transaction-start",
}

func (c LineClass) String() string {
	if s, ok := lineClassNames[c]; ok {
		return s
	}
	return "unknown"
}

// pageFooterPattern matches the trailing "p. 2/5" page counter Amex prints
// at the bottom of every page.
var pageFooterPattern = regexp.MustCompile(`(?i)\bp\.\s*\d+/\d+\s*$`)

// IssuerRules is the per-issuer vocabulary the classifier works from.
// Prefix lists are compared against the upper-cased, normalized line.
type IssuerRules struct {
	// DatePattern must be anchored and capture (date, rest-of-line).
	DatePattern *regexp.Regexp

	FeesPrefixes     []string
	InterestPrefixes []string
	SectionEnd       []string
	SkipPrefixes     []string

	// DetectFooter enables the "p. N/M" footer class.
	DetectFooter bool
	// FooterResetsSkip makes a page footer end a fees/interest section.
	FooterResetsSkip bool

	// Holder reports whether lines[i] names a cardholder, and the raw name.
	// Nil for issuers without per-cardholder sectioning.
	Holder func(lines []string, i int) (string, bool)
}

// Classifier labels lines according to one issuer's rules.
type Classifier struct {
	rules IssuerRules
}

// NewClassifier returns a classifier for the given rules.
func NewClassifier(rules IssuerRules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify labels lines[i]. Precedence is cardholder header, section
// markers, skip prefix and footer, transaction start, then continuation;
// anything ambiguous is a continuation.
func (c *Classifier) Classify(lines []string, i int) LineClass {
	if i < 0 || i >= len(lines) {
		return ClassContinuation
	}
	line := normalizeLine(lines[i])
	upper := strings.ToUpper(line)

	if c.rules.Holder != nil {
		if _, ok := c.rules.Holder(lines, i); ok {
			return ClassCardholderHeader
		}
	}

	switch {
	case hasAnyPrefix(upper, c.rules.FeesPrefixes):
		return ClassFeesStart
	case hasAnyPrefix(upper, c.rules.InterestPrefixes):
		return ClassInterestStart
	case hasAnyPrefix(upper, c.rules.SectionEnd):
		return ClassSectionEnd
	case c.rules.DetectFooter && pageFooterPattern.MatchString(line):
		return ClassPageFooter
	case hasAnyPrefix(upper, c.rules.SkipPrefixes):
		return ClassSkipPrefix
	case c.rules.DatePattern != nil && c.rules.DatePattern.MatchString(line):
		return ClassTransactionStart
	}
	return ClassContinuation
}

// Holder returns the raw cardholder name on lines[i], if it is a header.
func (c *Classifier) Holder(lines []string, i int) (string, bool) {
	if c.rules.Holder == nil || i < 0 || i >= len(lines) {
		return "", false
	}
	return c.rules.Holder(lines, i)
}

// SplitDate splits a transaction-start line into its date token and the
// text that follows it.
func (c *Classifier) SplitDate(line string) (date, rest string, ok bool) {
	if c.rules.DatePattern == nil {
		return "", "", false
	}
	m := c.rules.DatePattern.FindStringSubmatch(normalizeLine(line))
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// upperHolderPattern is the character set a printed cardholder name uses.
var upperHolderPattern = regexp.MustCompile(`^[A-Z .'\-]+$`)

// holderLookaheadMarkers appear within a few lines after a cardholder name.
var holderLookaheadMarkers = []string{"CARD ENDING", "ACCOUNT ENDING", "CLOSING DATE"}

// lookaheadHolder recognizes an all-caps name line followed, within the
// next three lines, by a card/account marker. The lookahead keeps stray
// capitalized text from opening a section.
func lookaheadHolder(lines []string, i int) (string, bool) {
	line := normalizeLine(lines[i])
	if line == "" || line != strings.ToUpper(line) || !upperHolderPattern.MatchString(line) {
		return "", false
	}

	var ahead []string
	for k := 1; k <= 3 && i+k < len(lines); k++ {
		ahead = append(ahead, normalizeLine(lines[i+k]))
	}
	lookahead := strings.ToUpper(strings.Join(ahead, " "))
	for _, marker := range holderLookaheadMarkers {
		if strings.Contains(lookahead, marker) {
			return line, true
		}
	}
	return "", false
}
