package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tracknest/ingest/internal/models"
)

// Export is a batch of candidates and where they came from.
type Export struct {
	// Source is a free-form label such as the statement file name.
	Source     string
	Candidates []models.Candidate
}

// CSVWriter writes candidates to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes candidates to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, exp Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}

	if err := w.Write(f, exp); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes candidates in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, exp Export) error {
	writer := csv.NewWriter(out)

	// Metadata rows before the column header
	if w.IncludeHeader {
		if exp.Source != "" {
			if err := writer.Write([]string{"# Source", exp.Source}); err != nil {
				return fmt.Errorf("failed to write CSV metadata: %w", err)
			}
		}
		if err := writer.Write([]string{"# Count", strconv.Itoa(len(exp.Candidates))}); err != nil {
			return fmt.Errorf("failed to write CSV metadata: %w", err)
		}
	}

	header := []string{"Date", "Title", "Type", "Category", "Amount"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, c := range exp.Candidates {
		row := []string{
			c.OccurredAt.Format("2006-01-02"),
			c.Title,
			string(c.Kind),
			c.Category,
			formatAmount(c.Amount),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatAmount(amount decimal.Decimal) string {
	if amount.IsZero() {
		return ""
	}
	return amount.StringFixed(2)
}
