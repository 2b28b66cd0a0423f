package parser

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tracknest/ingest/internal/models"
)

// parseAmount converts a string like "1,234.56" or "₹1,234.56" to a decimal
// rounded to two places.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00A0", "") // non-breaking space

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Round(2), nil
}

// isBlankAmount reports whether a statement amount cell means "nothing in
// this column".
func isBlankAmount(s string) bool {
	switch strings.ReplaceAll(strings.TrimSpace(s), ",", "") {
	case "", "0", "0.00", "-":
		return true
	}
	return false
}

// collapseSpace joins all whitespace runs, newlines included, into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// titleCase upper-cases the first letter of every word.
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

// truncate cuts s to at most models.MaxTitleLength runes.
func truncate(s string) string {
	return models.TruncateTitle(s)
}
