package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/tracknest/ingest/internal/models"
)

func TestQuickParser(t *testing.T) {
	today := time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	tests := []struct {
		text     string
		amount   string
		title    string
		category string
		kind     models.Kind
		day      time.Time
	}{
		{"Spent 500 on groceries yesterday", "500", "Groceries", "Shopping", models.KindExpense, yesterday},
		{"Coffee 150", "150", "Coffee", "Food", models.KindExpense, today},
		{"salary credited 50000", "50000", "Salary Credited", "Income", models.KindIncome, today},
		{"salary from swiggy 50000", "50000", "Salary Swiggy", "Income", models.KindIncome, today},
		{"uber to office 1,250.50 today", "1250.5", "Uber Office", "Travel", models.KindExpense, today},
		{"₹300 movie tickets", "300", "Movie Tickets", "Entertainment", models.KindExpense, today},
		{"lunch 12,50", "12.5", "Lunch", "Food", models.KindExpense, today},
		{"paid rs. 99 for netflix day before yesterday", "99", "Netflix", "Entertainment", models.KindExpense, today.AddDate(0, 0, -2)},
		{"500rs pharmacy", "500", "Pharmacy", "Health", models.KindExpense, today},
		{"gift for mom 2000", "2000", "Gift Mom", "General", models.KindExpense, today},
	}

	p := &QuickParser{Now: func() time.Time { return today.Add(15 * time.Hour) }}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			c := p.Parse(tt.text)
			if c.Amount.String() != tt.amount {
				t.Errorf("amount: got %s, want %s", c.Amount, tt.amount)
			}
			if c.Title != tt.title {
				t.Errorf("title: got %q, want %q", c.Title, tt.title)
			}
			if c.Category != tt.category {
				t.Errorf("category: got %q, want %q", c.Category, tt.category)
			}
			if c.Kind != tt.kind {
				t.Errorf("kind: got %q, want %q", c.Kind, tt.kind)
			}
			if !c.OccurredAt.Equal(tt.day) {
				t.Errorf("date: got %v, want %v", c.OccurredAt, tt.day)
			}
			if c.Source != models.SourceQuick {
				t.Errorf("source: got %q", c.Source)
			}
		})
	}
}

func TestQuickParserTitleExcludesConsumedWords(t *testing.T) {
	p := &QuickParser{Now: func() time.Time { return fixedNow }}
	c := p.Parse("Spent 500 on groceries yesterday")

	lower := strings.ToLower(c.Title)
	for _, w := range []string{"spent", "on", "yesterday", "500"} {
		for _, field := range strings.Fields(lower) {
			if field == w {
				t.Errorf("title %q contains %q", c.Title, w)
			}
		}
	}
}

func TestQuickParserDefaults(t *testing.T) {
	p := &QuickParser{Now: func() time.Time { return fixedNow }}

	c := p.Parse("500 yesterday")
	if c.Title != DefaultQuickTitle {
		t.Errorf("title: got %q, want %q", c.Title, DefaultQuickTitle)
	}
	if c.Category != "General" {
		t.Errorf("category: got %q", c.Category)
	}

	// No amount is not an error: the candidate carries zero and the caller decides.
	c = p.Parse("coffee with friends")
	if !c.Amount.IsZero() {
		t.Errorf("amount: got %s, want 0", c.Amount)
	}
	if c.Title != "Coffee Friends" {
		t.Errorf("title: got %q", c.Title)
	}
	if c.Valid() {
		t.Error("zero-amount candidate must not be valid")
	}

	c = p.Parse("")
	if c.Title != DefaultQuickTitle || !c.Amount.IsZero() || c.Kind != models.KindExpense {
		t.Errorf("unexpected candidate for empty text: %+v", c)
	}
}

func TestQuickParserLongTitle(t *testing.T) {
	p := &QuickParser{Now: func() time.Time { return fixedNow }}
	c := p.Parse("100 " + strings.Repeat("x", 300))

	if n := len([]rune(c.Title)); n > models.MaxTitleLength {
		t.Errorf("title has %d runes, want at most %d", n, models.MaxTitleLength)
	}
}
