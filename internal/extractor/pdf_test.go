package extractor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tracknest/ingest/internal/pdftest"
)

func statementPDF(t *testing.T, pages int) []byte {
	t.Helper()

	first := pdftest.Page{}
	first = append(first, pdftest.Row(760, []float64{20}, "Federal Bank - Statement of Account")...)
	first = append(first, pdftest.Row(700, detailedColumns, detailedHeader...)...)
	first = append(first, pdftest.Row(680, detailedColumns,
		"12-02-2026", "12-02-2026", "ZOMATO ONLINE ORDER", "UPI", "S123", "", "500.00", "", "10,000.00", "Dr")...)
	first = append(first, pdftest.Row(669, detailedColumns, "", "", "REF 98765")...)

	all := []pdftest.Page{first}
	for i := 1; i < pages; i++ {
		all = append(all, pdftest.Row(760, detailedColumns,
			"13-02-2026", "13-02-2026", "AMAZON PAY", "UPI", "S124", "", "1,250.50", "", "8,749.50", "Dr"))
	}
	return pdftest.Build(all...)
}

func TestExtractReconstructsTables(t *testing.T) {
	data := statementPDF(t, 2)

	e := NewPDF(zerolog.Nop())
	pages, err := e.Extract(context.Background(), bytes.NewReader(data), int64(len(data)), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}

	first := pages[0]
	if len(first) != 2 {
		t.Fatalf("page 1: expected header + 1 row, got %d rows: %q", len(first), first)
	}
	row := first[1]
	if row[0] != "12-02-2026" {
		t.Errorf("date: got %q", row[0])
	}
	if row[2] != "ZOMATO ONLINE ORDER\nREF 98765" {
		t.Errorf("narration: got %q", row[2])
	}
	if row[6] != "500.00" {
		t.Errorf("withdrawal: got %q", row[6])
	}

	second := pages[1]
	if len(second) != 1 {
		t.Fatalf("page 2: expected 1 row, got %d", len(second))
	}
	if second[0][2] != "AMAZON PAY" || second[0][6] != "1,250.50" {
		t.Errorf("page 2 row: got %q", second[0])
	}
}

func TestExtractTruncatesToMaxPages(t *testing.T) {
	data := statementPDF(t, 3)

	e := &PDF{MaxPages: 2, Log: zerolog.Nop()}
	pages, err := e.Extract(context.Background(), bytes.NewReader(data), int64(len(data)), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Errorf("expected 2 pages, got %d", len(pages))
	}
}

func TestExtractRejectsNonPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"plain text", []byte("this is not a statement")},
		{"header only", append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 200)...)},
		{"empty", nil},
	}

	e := NewPDF(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract(context.Background(), bytes.NewReader(tt.data), int64(len(tt.data)), "")
			if !errors.Is(err, ErrUnreadable) {
				t.Errorf("expected ErrUnreadable, got %v", err)
			}
		})
	}
}

func TestExtractHonoursCancellation(t *testing.T) {
	data := statementPDF(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPDF(zerolog.Nop()).Extract(ctx, bytes.NewReader(data), int64(len(data)), "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.pdf")
	if err := os.WriteFile(path, statementPDF(t, 1), 0o600); err != nil {
		t.Fatal(err)
	}

	pages, err := NewPDF(zerolog.Nop()).ExtractFile(context.Background(), path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 || len(pages[0]) != 2 {
		t.Errorf("unexpected tables: %q", pages)
	}

	if _, err := NewPDF(zerolog.Nop()).ExtractFile(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), ""); err == nil {
		t.Error("expected error for missing file")
	}
}
