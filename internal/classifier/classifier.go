// Package classifier maps merchant and narration text to category names using
// ordered keyword tables.
package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultCategory is returned when no rule matches.
const DefaultCategory = "General"

// IncomeCategory is the label used for salary and credit-transfer overrides.
const IncomeCategory = "Income"

// Rule assigns Category to any text containing one of Keywords.
type Rule struct {
	Keywords []string
	Category string
	// WholeWord requires each keyword to stand alone, so "tea" does not
	// match "instead".
	WholeWord bool
}

// Ruleset is an ordered list of rules. The first matching rule wins, even if a
// later rule would also match.
type Ruleset []Rule

// Classify returns the category of the first rule with a keyword contained in
// text, or DefaultCategory.
func (rs Ruleset) Classify(text string) string {
	text = strings.ToLower(text)
	for _, rule := range rs {
		if rule.Matches(text) {
			return rule.Category
		}
	}
	return DefaultCategory
}

// Matches reports whether lower-cased text contains any of the rule's keywords.
func (r Rule) Matches(text string) bool {
	for _, kw := range r.Keywords {
		if kw == "" {
			continue
		}
		if r.WholeWord {
			if containsWord(text, kw) {
				return true
			}
		} else if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// containsWord reports whether kw occurs in text with no letter or digit
// directly before or after it.
func containsWord(text, kw string) bool {
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], kw)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(kw)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		from = start + 1
	}
	return false
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// Categories returns the distinct categories of rs in rule order.
func (rs Ruleset) Categories() []string {
	seen := make(map[string]bool, len(rs))
	var out []string
	for _, rule := range rs {
		if seen[rule.Category] {
			continue
		}
		seen[rule.Category] = true
		out = append(out, rule.Category)
	}
	return out
}

// HasIncomeMarker reports whether narration carries a salary or
// credit-transfer marker.
func HasIncomeMarker(narration string) bool {
	return IncomeMarkers.Matches(strings.ToLower(narration))
}
