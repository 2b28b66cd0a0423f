package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxTitleLength is the longest title the store accepts, in runes.
const MaxTitleLength = 255

// TruncateTitle cuts s to at most MaxTitleLength runes.
func TruncateTitle(s string) string {
	if utf8.RuneCountInString(s) <= MaxTitleLength {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:MaxTitleLength]))
}

// Kind is the direction of a transaction.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// Source identifies which extractor produced a candidate.
type Source string

const (
	SourceSMS       Source = "sms"
	SourceStatement Source = "statement"
	SourceQuick     Source = "quick"
)

// Candidate is a transaction proposed by an extractor. It has not been
// persisted or de-duplicated yet.
type Candidate struct {
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       Kind            `json:"transaction_type"`
	Category   string          `json:"category_name"`
	OccurredAt time.Time       `json:"date"`
	Source     Source          `json:"source"`
	Merchant   string          `json:"merchant,omitempty"` // sms only
	OwnerID    string          `json:"-"`                  // statement only
}

// Valid reports whether c satisfies the emission invariants: positive amount,
// known kind, non-empty title and category.
func (c Candidate) Valid() bool {
	return c.Amount.IsPositive() && c.Kind.Valid() && c.Title != "" && c.Category != ""
}

// DedupeKey is the exact-match identity used when importing candidates.
type DedupeKey struct {
	Title  string
	Amount string
	Day    string
}

// Key returns the de-duplication key for c.
func (c Candidate) Key() DedupeKey {
	return DedupeKey{
		Title:  c.Title,
		Amount: c.Amount.StringFixed(2),
		Day:    c.OccurredAt.Format("2006-01-02"),
	}
}

// MaxStatementPages caps how many leading pages of a statement are read.
// Longer documents are truncated, not rejected.
const MaxStatementPages = 40

// Table is one page's table: rows of cell strings.
type Table [][]string
