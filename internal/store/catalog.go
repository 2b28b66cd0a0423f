package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tracknest/ingest/internal/classifier"
	"github.com/tracknest/ingest/internal/models"
)

// EnsureCategory returns the id of the named category, creating it if needed.
func (s *Store) EnsureCategory(ctx context.Context, name string) (int64, error) {
	return ensureCategory(ctx, s.db, name)
}

// EnsurePaymentMethod returns the id of the named payment method, creating
// it if needed. A stored method without an icon picks up pm.Icon.
func (s *Store) EnsurePaymentMethod(ctx context.Context, pm models.PaymentMethod) (int64, error) {
	return ensurePaymentMethod(ctx, s.db, pm)
}

// SeedCategories creates every category the classifier can produce.
func (s *Store) SeedCategories(ctx context.Context) error {
	for _, name := range knownCategories() {
		if _, err := s.EnsureCategory(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func knownCategories() []string {
	seen := map[string]bool{}
	var out []string
	add := func(names ...string) {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	add(classifier.DefaultCategory, classifier.IncomeCategory)
	add(classifier.SMS.Categories()...)
	add(classifier.Statement.Categories()...)
	add(classifier.Quick.Categories()...)
	return out
}

func ensureCategory(ctx context.Context, q queryer, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("ensure category: name is empty")
	}

	isIncome := name == classifier.IncomeCategory
	if _, err := q.ExecContext(ctx,
		`INSERT INTO categories(name, is_income) VALUES(?, ?) ON CONFLICT(name) DO NOTHING`,
		name, isIncome); err != nil {
		return 0, fmt.Errorf("ensure category %q: %w", name, err)
	}

	var id int64
	if err := q.QueryRowContext(ctx, `SELECT id FROM categories WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("ensure category %q: %w", name, err)
	}
	return id, nil
}

func ensurePaymentMethod(ctx context.Context, q queryer, pm models.PaymentMethod) (int64, error) {
	name := strings.TrimSpace(pm.Name)
	if name == "" {
		return 0, errors.New("ensure payment method: name is empty")
	}

	if _, err := q.ExecContext(ctx, `
	INSERT INTO payment_methods(name, icon) VALUES(?, ?)
	ON CONFLICT(name) DO UPDATE SET icon = excluded.icon
	WHERE payment_methods.icon = '' AND excluded.icon != ''`,
		name, pm.Icon); err != nil {
		return 0, fmt.Errorf("ensure payment method %q: %w", name, err)
	}

	var id int64
	if err := q.QueryRowContext(ctx, `SELECT id FROM payment_methods WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("ensure payment method %q: %w", name, err)
	}
	return id, nil
}
