package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/tracknest/ingest/internal/classifier"
	"github.com/tracknest/ingest/internal/models"
)

// UnknownMerchant is the title used when no merchant phrase is found.
const UnknownMerchant = "Unknown Merchant"

// Amount phrasings used by Indian bank and UPI alerts, in priority order.
var smsAmountPatterns = []*regexp.Regexp{
	// "debited rs. 500", "spent inr 1,200.50", "sent rs 99"
	regexp.MustCompile(`(?:debited\s|spent\s|sent\s)(?:rs\.?|inr)\s?([\d,]+\.?\d*)`),
	// "rs. 500 debited"
	regexp.MustCompile(`(?:rs\.?|inr)\s?([\d,]+\.?\d*)\s(?:debited|spent|sent)`),
	// "paid rs. 250"
	regexp.MustCompile(`paid\s(?:rs\.?|inr)\s?([\d,]+\.?\d*)`),
}

var smsMerchantPatterns = []*regexp.Regexp{
	// "to zomato on 12-01", "at big bazaar.", "to swiggy ref 1234"
	regexp.MustCompile(`\b(?:to|at)\s+([a-z0-9\s]+?)(?:\s+on|\s+ref|\s+upi|\s+from|\.|$)`),
	// "vpa swiggy@icici"
	regexp.MustCompile(`vpa\s+([a-z0-9\s]+?)(?:@|\s)`),
}

// SMSParser extracts a candidate transaction from a forwarded payment alert.
type SMSParser struct {
	// Now returns the extraction time. Defaults to time.Now.
	Now func() time.Time
}

// Parse returns the candidate found in body. The boolean is false when the
// message carries no recognizable debit; that is a normal outcome, not an error.
func (p *SMSParser) Parse(body string) (models.Candidate, bool) {
	body = strings.ToLower(body)

	raw, found := firstSubmatch(smsAmountPatterns, body)
	if !found {
		return models.Candidate{}, false
	}
	amount, err := parseAmount(raw)
	if err != nil || !amount.IsPositive() {
		return models.Candidate{}, false
	}

	merchant := UnknownMerchant
	if m, ok := firstSubmatch(smsMerchantPatterns, body); ok {
		if m = strings.TrimSpace(m); m != "" {
			merchant = titleCase(m)
		}
	}

	// Credit alerts are not distinguished yet; every SMS is recorded as an expense.
	return models.Candidate{
		Title:      truncate(merchant),
		Amount:     amount,
		Kind:       models.KindExpense,
		Category:   classifier.SMS.Classify(merchant),
		OccurredAt: p.now(),
		Source:     models.SourceSMS,
		Merchant:   merchant,
	}, true
}

func (p *SMSParser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// firstSubmatch returns the first capture group of the first pattern that
// matches s.
func firstSubmatch(patterns []*regexp.Regexp, s string) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return m[1], true
		}
	}
	return "", false
}
