package parser

import (
	"testing"
	"time"

	"github.com/tracknest/ingest/internal/models"
)

var fixedNow = time.Date(2026, time.February, 14, 18, 30, 0, 0, time.UTC)

func TestSMSParserAmounts(t *testing.T) {
	tests := []struct {
		body   string
		amount string
	}{
		{"Rs. 500 debited from your account", "500"},
		{"RS. 500 DEBITED from a/c XX1234", "500"},
		{"rs 500 debited", "500"},
		{"Your a/c XX1234 is debited Rs. 1,200.50 on 12-01", "1200.5"},
		{"You have spent INR 349 at Swiggy", "349"},
		{"Sent Rs.99 to Rapido via UPI", "99"},
		{"Paid Rs. 250 to Zomato on 12-01", "250"},
		{"INR 75.25 spent on card", "75.25"},
	}

	p := &SMSParser{Now: func() time.Time { return fixedNow }}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			c, ok := p.Parse(tt.body)
			if !ok {
				t.Fatal("expected a candidate")
			}
			if c.Amount.String() != tt.amount {
				t.Errorf("amount: got %s, want %s", c.Amount, tt.amount)
			}
			if c.Kind != models.KindExpense {
				t.Errorf("kind: got %q, want expense", c.Kind)
			}
			if !c.Amount.IsPositive() {
				t.Error("amount must be positive")
			}
			if !c.OccurredAt.Equal(fixedNow) {
				t.Errorf("date: got %v, want %v", c.OccurredAt, fixedNow)
			}
			if c.Source != models.SourceSMS {
				t.Errorf("source: got %q", c.Source)
			}
		})
	}
}

func TestSMSParserMerchant(t *testing.T) {
	tests := []struct {
		body     string
		merchant string
		category string
	}{
		{"paid Rs. 250 to Zomato on 12-01", "Zomato", "Food"},
		{"Rs. 180 debited at big bazaar.", "Big Bazaar", "General"},
		{"Sent Rs. 320 to uber india ref 998877", "Uber India", "Travel"},
		{"debited Rs. 649 via vpa netflix@hdfcbank", "Netflix", "Entertainment"},
		{"Rs. 500 debited from your account", UnknownMerchant, "General"},
		{"Spent Rs. 999 to Amazon", "Amazon", "Shopping"},
	}

	p := &SMSParser{Now: func() time.Time { return fixedNow }}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			c, ok := p.Parse(tt.body)
			if !ok {
				t.Fatal("expected a candidate")
			}
			if c.Merchant != tt.merchant {
				t.Errorf("merchant: got %q, want %q", c.Merchant, tt.merchant)
			}
			if c.Title != tt.merchant {
				t.Errorf("title: got %q, want %q", c.Title, tt.merchant)
			}
			if c.Category != tt.category {
				t.Errorf("category: got %q, want %q", c.Category, tt.category)
			}
		})
	}
}

func TestSMSParserMerchantNeedsWholeWord(t *testing.T) {
	// "to" and "at" only introduce a merchant as words of their own, never as
	// the tail of "flat" or "photo".
	tests := []struct {
		body     string
		merchant string
	}{
		{"Rs. 500 debited for flat no 5 on 12-01", UnknownMerchant},
		{"Rs. 120 debited for photo prints", UnknownMerchant},
		{"Rs. 120 debited for photo prints at kodak express.", "Kodak Express"},
		{"Rs. 90 debited to chai point on 12-01", "Chai Point"},
	}

	p := &SMSParser{Now: func() time.Time { return fixedNow }}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			c, ok := p.Parse(tt.body)
			if !ok {
				t.Fatal("expected a candidate")
			}
			if c.Merchant != tt.merchant {
				t.Errorf("merchant: got %q, want %q", c.Merchant, tt.merchant)
			}
		})
	}
}

func TestSMSParserAbstains(t *testing.T) {
	bodies := []string{
		"",
		"Your OTP for login is 482913",
		"Rs. 500 credited to your account",
		"Debited Rs. 0 for mandate verification",
		"Reminder: bill of Rs. 499 due tomorrow",
		"Rs. , debited",
	}

	p := &SMSParser{}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			if c, ok := p.Parse(body); ok {
				t.Errorf("expected no candidate, got %+v", c)
			}
		})
	}
}

func TestSMSParserDefaultClock(t *testing.T) {
	before := time.Now()
	c, ok := (&SMSParser{}).Parse("Rs. 10 debited")
	if !ok {
		t.Fatal("expected a candidate")
	}
	if c.OccurredAt.Before(before) {
		t.Errorf("date %v is before %v", c.OccurredAt, before)
	}
}
