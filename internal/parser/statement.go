package parser

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tracknest/ingest/internal/classifier"
	"github.com/tracknest/ingest/internal/models"
)

// statementDatePattern accepts DD-MM-YYYY and DD-Mon-YYYY. Anything else in
// the date column is a header, footer or decoration row.
var statementDatePattern = regexp.MustCompile(`^\d{1,2}-(?:\d{1,2}|[A-Za-z]{3})-\d{4}$`)

var statementDateLayouts = []string{"02-01-2006", "2-1-2006", "02-Jan-2006", "2-Jan-2006"}

// TableExtractor turns a raw statement document into per-page tables.
type TableExtractor interface {
	Extract(ctx context.Context, r io.ReaderAt, size int64, password string) ([]models.Table, error)
}

// StatementParser converts statement tables into candidate transactions.
type StatementParser struct {
	// Layout fixes the column positions. A zero Layout is detected per document.
	Layout Layout
	// Tables is used by ParseDocument.
	Tables TableExtractor
	Log    zerolog.Logger
}

// NewStatementParser returns a parser with the given layout and extractor.
func NewStatementParser(layout Layout, tables TableExtractor, log zerolog.Logger) *StatementParser {
	return &StatementParser{Layout: layout, Tables: tables, Log: log}
}

// ParseDocument extracts tables from the document and parses them. Only a
// document the extractor cannot open is an error; zero candidates is a
// successful result.
func (p *StatementParser) ParseDocument(ctx context.Context, r io.ReaderAt, size int64, password, ownerID string) ([]models.Candidate, error) {
	if p.Tables == nil {
		return nil, fmt.Errorf("statement parser has no table extractor")
	}
	pages, err := p.Tables.Extract(ctx, r, size, password)
	if err != nil {
		return nil, fmt.Errorf("extract statement tables: %w", err)
	}
	return p.ParseTables(pages, ownerID), nil
}

// ParseTables walks every row of up to models.MaxStatementPages pages and
// returns one candidate per valid data row, in encounter order.
func (p *StatementParser) ParseTables(pages []models.Table, ownerID string) []models.Candidate {
	if len(pages) > models.MaxStatementPages {
		pages = pages[:models.MaxStatementPages]
	}

	layout := p.Layout
	if layout.IsZero() {
		layout = DetectLayout(pages)
	}

	var candidates []models.Candidate
	for pageIdx, table := range pages {
		for rowIdx, raw := range table {
			c, ok, err := p.safeParseRow(raw, layout)
			if err != nil {
				p.Log.Warn().
					Err(err).
					Int("page", pageIdx+1).
					Int("row", rowIdx).
					Strs("cells", raw).
					Msg("Skipping malformed statement row")
				continue
			}
			if !ok {
				continue
			}
			c.OwnerID = ownerID
			candidates = append(candidates, c)
		}
	}

	p.Log.Debug().
		Str("layout", layout.Name).
		Int("pages", len(pages)).
		Int("candidates", len(candidates)).
		Msg("Parsed statement tables")

	return candidates
}

// safeParseRow turns a panic inside parseRow into a row error.
func (p *StatementParser) safeParseRow(raw []string, layout Layout) (c models.Candidate, ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			c, ok, err = models.Candidate{}, false, fmt.Errorf("row parser crashed: %v", rec)
		}
	}()
	return parseRow(raw, layout)
}

// parseRow returns ok=false without an error for rows that are simply not
// transactions (headers, totals, zero rows). Rows that look like
// transactions but fail to parse return an error.
func parseRow(raw []string, layout Layout) (models.Candidate, bool, error) {
	row := make([]string, len(raw))
	for i, cell := range raw {
		row[i] = strings.TrimSpace(cell)
	}

	if len(row) < layout.MinColumns {
		return models.Candidate{}, false, nil
	}
	if !statementDatePattern.MatchString(row[layout.DateCol]) {
		return models.Candidate{}, false, nil
	}

	date, err := parseStatementDate(row[layout.DateCol])
	if err != nil {
		return models.Candidate{}, false, err
	}
	narration := collapseSpace(row[layout.NarrationCol])

	var (
		amount decimal.Decimal
		kind   models.Kind
	)
	withdrawal, deposit := row[layout.WithdrawalCol], row[layout.DepositCol]
	switch {
	case !isBlankAmount(withdrawal):
		if amount, err = parseAmount(withdrawal); err != nil {
			return models.Candidate{}, false, fmt.Errorf("withdrawal %q: %w", withdrawal, err)
		}
		kind = models.KindExpense
	case !isBlankAmount(deposit):
		if amount, err = parseAmount(deposit); err != nil {
			return models.Candidate{}, false, fmt.Errorf("deposit %q: %w", deposit, err)
		}
		kind = models.KindIncome
	default:
		return models.Candidate{}, false, nil
	}

	if !amount.IsPositive() || narration == "" {
		return models.Candidate{}, false, nil
	}

	category := classifier.Statement.Classify(narration)
	if kind == models.KindIncome && classifier.HasIncomeMarker(narration) {
		category = classifier.IncomeCategory
	}

	return models.Candidate{
		Title:      truncate(narration),
		Amount:     amount,
		Kind:       kind,
		Category:   category,
		OccurredAt: date,
		Source:     models.SourceStatement,
	}, true, nil
}

func parseStatementDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range statementDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("statement date %q: %w", s, lastErr)
}
