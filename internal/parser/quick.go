package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tracknest/ingest/internal/classifier"
	"github.com/tracknest/ingest/internal/models"
)

// DefaultQuickTitle is used when nothing but amount and date words remain.
const DefaultQuickTitle = "Quick Expense"

// quickAmountPattern matches an amount with optional currency markers on
// either side. Group 1 is a thousands-grouped number, group 2 a plain number
// whose decimal separator may be "." or ",".
var quickAmountPattern = regexp.MustCompile(
	`(?:(?:₹|\brs\.?|\binr|\brupees)\s*)?` +
		`(?:(\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?)|(\d+(?:[.,]\d{1,2})?))` +
		`(?:\s*(?:₹|rs\b\.?|inr\b|rupees\b))?`,
)

// Relative date qualifiers. Longer phrases first: "day before yesterday"
// contains "yesterday".
var relativeDays = []struct {
	phrase string
	offset int
}{
	{"day before yesterday", -2},
	{"yesterday", -1},
	{"today", 0},
}

var quickStopWords = map[string]bool{
	"spent": true, "spend": true, "paid": true, "pay": true, "bought": true,
	"buy": true, "got": true, "gave": true, "for": true, "on": true, "at": true,
	"to": true, "in": true, "of": true, "from": true, "with": true, "by": true,
	"and": true, "the": true, "a": true, "an": true, "i": true, "me": true,
	"my": true, "we": true, "our": true, "us": true, "some": true, "just": true,
	"rs": true, "rs.": true, "inr": true, "rupees": true, "₹": true,
}

// QuickParser turns a short phrase such as "coffee 150" or
// "spent 500 on groceries yesterday" into a candidate.
type QuickParser struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Parse always returns exactly one candidate. Missing fields fall back to
// defaults: zero amount, today's date, DefaultQuickTitle.
func (p *QuickParser) Parse(text string) models.Candidate {
	work := strings.ToLower(strings.TrimSpace(text))

	amount, work := extractQuickAmount(work)
	day, work := resolveRelativeDate(work, p.now())

	var words []string
	for _, w := range strings.Fields(work) {
		w = strings.Trim(w, ",.!?;:'\"()")
		if w == "" || quickStopWords[w] {
			continue
		}
		words = append(words, w)
	}
	remaining := strings.Join(words, " ")

	kind := models.KindExpense
	category := classifier.Quick.Classify(remaining)
	if strings.Contains(remaining, classifier.SalaryKeyword) {
		kind = models.KindIncome
		category = classifier.IncomeCategory
	}

	title := DefaultQuickTitle
	if remaining != "" {
		title = titleCase(remaining)
	}

	return models.Candidate{
		Title:      truncate(title),
		Amount:     amount,
		Kind:       kind,
		Category:   category,
		OccurredAt: day,
		Source:     models.SourceQuick,
	}
}

func (p *QuickParser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// extractQuickAmount returns the first amount in s and s with that match removed.
func extractQuickAmount(s string) (decimal.Decimal, string) {
	m := quickAmountPattern.FindStringSubmatchIndex(s)
	if m == nil {
		return decimal.Zero, s
	}

	var raw string
	switch {
	case m[2] >= 0:
		raw = strings.ReplaceAll(s[m[2]:m[3]], ",", "")
	case m[4] >= 0:
		raw = strings.Replace(s[m[4]:m[5]], ",", ".", 1)
	}
	rest := s[:m[0]] + " " + s[m[1]:]

	amount, err := parseAmount(raw)
	if err != nil {
		return decimal.Zero, rest
	}
	return amount, rest
}

// resolveRelativeDate consumes the first relative-day phrase in s and returns
// the matching calendar day at midnight in now's location.
func resolveRelativeDate(s string, now time.Time) (time.Time, string) {
	offset := 0
	for _, rd := range relativeDays {
		if i := strings.Index(s, rd.phrase); i >= 0 {
			offset = rd.offset
			s = s[:i] + " " + s[i+len(rd.phrase):]
			break
		}
	}
	y, mo, d := now.Date()
	return time.Date(y, mo, d+offset, 0, 0, 0, 0, now.Location()), s
}
