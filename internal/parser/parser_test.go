package parser

import (
	"testing"

	"github.com/tracknest/ingest/internal/models"
)

func TestLayoutByName(t *testing.T) {
	tests := []struct {
		name     string
		expected Layout
		wantErr  bool
	}{
		{"", Layout{}, false},
		{"auto", Layout{}, false},
		{"federal", LayoutFederalDetailed, false},
		{"Federal-Detailed", LayoutFederalDetailed, false},
		{"federal-compact", LayoutFederalCompact, false},
		{"hsbc", Layout{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LayoutByName(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("got %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestDetectLayout(t *testing.T) {
	tests := []struct {
		name     string
		pages    []models.Table
		expected Layout
	}{
		{
			name: "detailed header",
			pages: []models.Table{{
				{"Date", "Value Date", "Particulars", "Tran Type", "Tran ID", "Cheque Details", "Withdrawals", "Deposits", "Balance", "DR/CR"},
			}},
			expected: LayoutFederalDetailed,
		},
		{
			name: "compact header",
			pages: []models.Table{{
				{"Date", "Particulars", "Chq.No", "Withdrawals", "Deposits", "Balance"},
			}},
			expected: LayoutFederalCompact,
		},
		{
			name:     "header on a later page",
			pages:    []models.Table{nil, {{"Date", "Particulars", "Chq.No", "Withdrawals", "Deposits", "Balance"}}},
			expected: LayoutFederalCompact,
		},
		{
			name:     "no header falls back to default",
			pages:    []models.Table{{{"12-02-2026", "ZOMATO", "", "500.00", "", "1000.00"}}},
			expected: DefaultLayout,
		},
		{
			name:     "no pages",
			expected: DefaultLayout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLayout(tt.pages); got != tt.expected {
				t.Errorf("got %q, want %q", got.Name, tt.expected.Name)
			}
		})
	}
}
