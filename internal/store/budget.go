package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tracknest/ingest/internal/models"
)

// Budget alert titles. At most one of each is written per user per day.
const (
	BudgetExceededTitle = "Budget Exceeded!"
	BudgetAlertTitle    = "Budget Alert"
)

var (
	hundred        = decimal.NewFromInt(100)
	alertThreshold = decimal.NewFromInt(80)
)

// SetMonthlyBudget sets the user's monthly spending budget. Zero disables
// budget alerts.
func (s *Store) SetMonthlyBudget(ctx context.Context, userID int64, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("set monthly budget: amount %s is negative", amount)
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO monthly_budgets(user_id, amount, updated_at) VALUES(?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET amount = excluded.amount, updated_at = excluded.updated_at`,
		userID, amount.Round(2).StringFixed(2), formatTime(s.now()))
	if err != nil {
		return fmt.Errorf("set monthly budget: %w", err)
	}
	return nil
}

// BudgetStatus is the user's budget next to this month's spending.
type BudgetStatus struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
	Spent  decimal.Decimal `json:"spent"`
}

// CurrentBudget returns the budget and the expenses of the current month.
func (s *Store) CurrentBudget(ctx context.Context, userID int64) (BudgetStatus, error) {
	now := s.now()
	budget, err := monthlyBudget(ctx, s.db, userID)
	if err != nil {
		return BudgetStatus{}, err
	}
	spent, err := monthlyExpenses(ctx, s.db, userID, now)
	if err != nil {
		return BudgetStatus{}, err
	}
	return BudgetStatus{Month: now.Format("2006-01"), Amount: budget, Spent: spent}, nil
}

// MonthlyBudget returns the user's budget, or zero when none is set.
func (s *Store) MonthlyBudget(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return monthlyBudget(ctx, s.db, userID)
}

// MonthlyExpenses sums the user's expenses dated in the month of t.
func (s *Store) MonthlyExpenses(ctx context.Context, userID int64, t time.Time) (decimal.Decimal, error) {
	return monthlyExpenses(ctx, s.db, userID, t)
}

// evaluateBudget writes a budget notification when this month's expenses
// reach 80% or 100% of the budget.
func (s *Store) evaluateBudget(ctx context.Context, q queryer, userID int64) error {
	budget, err := monthlyBudget(ctx, q, userID)
	if err != nil {
		return err
	}
	if !budget.IsPositive() {
		return nil
	}

	now := s.now()
	spent, err := monthlyExpenses(ctx, q, userID, now)
	if err != nil {
		return err
	}
	percentage := spent.Div(budget).Mul(hundred)

	var n models.Notification
	switch {
	case percentage.GreaterThanOrEqual(hundred):
		n = models.Notification{
			Title:   BudgetExceededTitle,
			Message: fmt.Sprintf("You've exceeded your monthly budget of %s!", budget.StringFixed(2)),
			Kind:    models.NotificationError,
		}
	case percentage.GreaterThanOrEqual(alertThreshold):
		n = models.Notification{
			Title:   BudgetAlertTitle,
			Message: fmt.Sprintf("Heads up! You've used %s%% of your monthly budget.", percentage.Truncate(0).String()),
			Kind:    models.NotificationWarning,
		}
	default:
		return nil
	}

	sent, err := notifiedOn(ctx, q, userID, n.Title, now)
	if err != nil || sent {
		return err
	}
	n.UserID = userID

	s.log.Info().
		Int64("user_id", userID).
		Str("title", n.Title).
		Str("spent", spent.StringFixed(2)).
		Str("budget", budget.StringFixed(2)).
		Msg("Budget threshold crossed")
	return s.createNotification(ctx, q, n)
}

func monthlyBudget(ctx context.Context, q queryer, userID int64) (decimal.Decimal, error) {
	var amount string
	err := q.QueryRowContext(ctx, `SELECT amount FROM monthly_budgets WHERE user_id = ?`, userID).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("load monthly budget: %w", err)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("monthly budget %q: %w", amount, err)
	}
	return d, nil
}

// monthlyExpenses sums in Go: amounts are stored as decimal text.
func monthlyExpenses(ctx context.Context, q queryer, userID int64, t time.Time) (decimal.Decimal, error) {
	rows, err := q.QueryContext(ctx, `
	SELECT amount FROM transactions
	WHERE user_id = ? AND kind = ? AND substr(occurred_on, 1, 7) = ?`,
		userID, string(models.KindExpense), t.Format("2006-01"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum monthly expenses: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, fmt.Errorf("sum monthly expenses: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("stored amount %q: %w", amount, err)
		}
		total = total.Add(d)
	}
	return total, rows.Err()
}
