package parser

import "strings"

// assembleBlock gathers the description of the transaction that starts at
// lines[start]. first is the text following the date token on that line.
//
// Continuation lines are appended until a line that starts something new:
// a cardholder header, another transaction, or a section marker. Skip-prefix
// and footer lines are dropped without ending the block because renderers
// interleave them mid-transaction. next is the index of the terminating
// line, which the caller must classify again.
func assembleBlock(c *Classifier, lines []string, start int, first string) (blob string, next int) {
	var parts []string
	if first != "" {
		parts = append(parts, first)
	}

	j := start + 1
	for ; j < len(lines); j++ {
		switch c.Classify(lines, j) {
		case ClassCardholderHeader, ClassTransactionStart,
			ClassFeesStart, ClassInterestStart, ClassSectionEnd:
			return strings.Join(parts, " "), j
		case ClassSkipPrefix, ClassPageFooter:
			continue
		}
		if line := normalizeLine(lines[j]); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " "), j
}
