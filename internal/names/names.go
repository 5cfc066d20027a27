// Package names maps the many printed forms of a cardholder's name onto one
// canonical display name.
package names

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Table is an alias table plus the list of canonical names. A Table is
// never modified after construction, so one instance can serve concurrent
// extractions.
type Table struct {
	canonical []string
	aliases   map[string]string
}

// NewTable builds a table. Alias keys are matched case-insensitively with
// whitespace collapsed. Every canonical name is also an alias of itself.
func NewTable(canonical []string, aliases map[string]string) *Table {
	t := &Table{
		canonical: append([]string(nil), canonical...),
		aliases:   make(map[string]string, len(aliases)+len(canonical)),
	}
	for _, name := range canonical {
		t.aliases[cleanKey(name)] = name
	}
	for alias, name := range aliases {
		t.aliases[cleanKey(alias)] = name
	}
	return t
}

// Canonical returns a copy of the canonical name list.
func (t *Table) Canonical() []string {
	return append([]string(nil), t.canonical...)
}

// WithAlias returns a new table that also maps alias to canonical. The
// target must already be a canonical name.
func (t *Table) WithAlias(alias, canonical string) (*Table, error) {
	if !t.isCanonical(canonical) {
		return nil, fmt.Errorf("unknown canonical name %q", canonical)
	}
	key := cleanKey(alias)
	if key == "" {
		return nil, fmt.Errorf("empty alias for %q", canonical)
	}
	next := &Table{
		canonical: t.Canonical(),
		aliases:   make(map[string]string, len(t.aliases)+1),
	}
	for k, v := range t.aliases {
		next.aliases[k] = v
	}
	next.aliases[key] = canonical
	return next, nil
}

func (t *Table) isCanonical(name string) bool {
	for _, c := range t.canonical {
		if c == name {
			return true
		}
	}
	return false
}

// Normalize returns the canonical form of name. Lookup order:
//
//  1. exact alias match, case-insensitive, whitespace collapsed
//  2. the same with periods removed
//  3. surname match against the canonical list, accepted when the first
//     token starts with the canonical first name's initial
//  4. name in title case, capitalized after apostrophes
//
// Step 3 cannot tell apart two people sharing a surname and first initial;
// the alias table is what resolves those.
func (t *Table) Normalize(name string) string {
	if strings.TrimSpace(name) == "" {
		return name
	}
	cleaned := cleanKey(name)

	if canon, ok := t.aliases[cleaned]; ok {
		return canon
	}

	for _, variant := range []string{
		strings.ReplaceAll(cleaned, ".", ""),
		collapse(strings.ReplaceAll(cleaned, ".", " ")),
	} {
		if canon, ok := t.aliases[variant]; ok {
			return canon
		}
	}

	parts := strings.Fields(cleaned)
	surname := parts[len(parts)-1]
	for _, canon := range t.canonical {
		lower := strings.ToLower(canon)
		fields := strings.Fields(lower)
		if len(fields) == 0 || !strings.HasSuffix(lower, surname) {
			continue
		}
		first := []rune(fields[0])
		if strings.HasPrefix(parts[0], string(first[0])) {
			return canon
		}
	}

	return titleName(name)
}

// titleName title-cases name and also capitalizes the letter after an
// apostrophe, so "O'BRIEN" becomes "O'Brien".
func titleName(name string) string {
	titled := []rune(cases.Title(language.Und).String(name))
	for i := 1; i < len(titled); i++ {
		if titled[i-1] == '\'' || titled[i-1] == '\u2019' {
			titled[i] = unicode.ToUpper(titled[i])
		}
	}
	return string(titled)
}

func cleanKey(s string) string {
	return collapse(strings.ToLower(s))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
