package store

import (
	"context"
	"database/sql"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tracknest/ingest/internal/classifier"
	"github.com/tracknest/ingest/internal/models"
)

// DefaultListLimit is used when ListTransactions is given no positive limit.
const DefaultListLimit = 50

// NewTransaction is one candidate to store for a user.
type NewTransaction struct {
	UserID        int64
	Candidate     models.Candidate
	PaymentMethod models.PaymentMethod
	Description   string
}

// ImportResult counts what ImportCandidates did.
type ImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// CleanTitle strips markup from a title and truncates it. It is applied to
// every stored title and to de-duplication lookups.
func (s *Store) CleanTitle(title string) string {
	clean := html.UnescapeString(s.sanitize.Sanitize(title))
	return models.TruncateTitle(strings.Join(strings.Fields(clean), " "))
}

// TransactionExists reports whether the user already has a transaction with
// exactly this title and amount on the given calendar day.
func (s *Store) TransactionExists(ctx context.Context, userID int64, title string, amount decimal.Decimal, day time.Time) (bool, error) {
	return transactionExists(ctx, s.db, userID, title, amount, day)
}

// InsertTransaction stores one transaction and, for expenses, evaluates the
// user's monthly budget in the same SQL transaction.
func (s *Store) InsertTransaction(ctx context.Context, in NewTransaction) (models.Transaction, error) {
	var out models.Transaction
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		c, err := s.prepare(in.Candidate)
		if err != nil {
			return err
		}
		in.Candidate = c
		out, err = s.insert(ctx, tx, in)
		return err
	})
	if err != nil {
		return models.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return out, nil
}

// ImportCandidates stores every candidate that is not an exact duplicate of
// an existing transaction (same user, title, amount and day). Candidates that
// cannot be stored are counted as skipped. All inserts share one SQL
// transaction.
func (s *Store) ImportCandidates(ctx context.Context, userID int64, candidates []models.Candidate, pm models.PaymentMethod, description string) (ImportResult, error) {
	var res ImportResult
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		for _, c := range candidates {
			c, err := s.prepare(c)
			if err != nil {
				res.Skipped++
				continue
			}

			exists, err := transactionExists(ctx, tx, userID, c.Title, c.Amount, c.OccurredAt)
			if err != nil {
				return err
			}
			if exists {
				res.Skipped++
				continue
			}

			if _, err := s.insert(ctx, tx, NewTransaction{
				UserID:        userID,
				Candidate:     c,
				PaymentMethod: pm,
				Description:   description,
			}); err != nil {
				return err
			}
			res.Created++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("import candidates: %w", err)
	}

	s.log.Debug().
		Int64("user_id", userID).
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Msg("Imported candidates")
	return res, nil
}

// ListTransactions returns the user's transactions, newest first.
func (s *Store) ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT t.id, t.user_id, t.title, t.amount, t.kind, COALESCE(c.name, ''),
	       COALESCE(p.name, ''), COALESCE(p.icon, ''), t.occurred_at, t.description,
	       t.source, t.created_at
	FROM transactions t
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN payment_methods p ON p.id = t.payment_method_id
	WHERE t.user_id = ?
	ORDER BY t.occurred_at DESC, t.id DESC
	LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var (
			t                     models.Transaction
			amount, occurred, cre string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &amount, &t.Kind, &t.Category,
			&t.PaymentMethod.Name, &t.PaymentMethod.Icon, &occurred, &t.Description,
			&t.Source, &cre); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %d amount %q: %w", t.ID, amount, err)
		}
		if t.OccurredAt, err = parseTime(occurred); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = parseTime(cre); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// prepare cleans the title, rounds the amount and defaults the category.
func (s *Store) prepare(c models.Candidate) (models.Candidate, error) {
	c.Title = s.CleanTitle(c.Title)
	c.Amount = c.Amount.Round(2)
	if c.Category == "" {
		c.Category = classifier.DefaultCategory
	}
	if !c.Valid() {
		return c, fmt.Errorf("%w: title %q amount %s kind %q", ErrInvalid, c.Title, c.Amount, c.Kind)
	}
	return c, nil
}

// insert stores a prepared candidate.
func (s *Store) insert(ctx context.Context, tx *sql.Tx, in NewTransaction) (models.Transaction, error) {
	c := in.Candidate
	categoryID, err := ensureCategory(ctx, tx, c.Category)
	if err != nil {
		return models.Transaction{}, err
	}
	var paymentID sql.NullInt64
	if in.PaymentMethod.Name != "" {
		id, err := ensurePaymentMethod(ctx, tx, in.PaymentMethod)
		if err != nil {
			return models.Transaction{}, err
		}
		paymentID = sql.NullInt64{Int64: id, Valid: true}
	}

	t := models.Transaction{
		UserID:        in.UserID,
		Title:         c.Title,
		Amount:        c.Amount,
		Kind:          c.Kind,
		Category:      c.Category,
		PaymentMethod: in.PaymentMethod,
		OccurredAt:    c.OccurredAt.UTC().Truncate(time.Second),
		Description:   in.Description,
		Source:        c.Source,
		CreatedAt:     s.now().UTC().Truncate(time.Second),
	}

	res, err := tx.ExecContext(ctx, `
	INSERT INTO transactions(
	 user_id, title, amount, kind, category_id, payment_method_id,
	 occurred_on, occurred_at, description, source, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Title, t.Amount.StringFixed(2), string(t.Kind), categoryID, paymentID,
		c.OccurredAt.Format(dayLayout), formatTime(t.OccurredAt), t.Description,
		string(t.Source), formatTime(t.CreatedAt))
	if err != nil {
		return models.Transaction{}, err
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return models.Transaction{}, err
	}

	if t.Kind == models.KindExpense {
		if err := s.evaluateBudget(ctx, tx, t.UserID); err != nil {
			return models.Transaction{}, err
		}
	}
	return t, nil
}

func transactionExists(ctx context.Context, q queryer, userID int64, title string, amount decimal.Decimal, day time.Time) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM transactions
	WHERE user_id = ? AND title = ? AND amount = ? AND occurred_on = ?`,
		userID, title, amount.Round(2).StringFixed(2), day.Format(dayLayout),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check duplicate: %w", err)
	}
	return n > 0, nil
}
