package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tracknest/ingest/internal/models"
)

const welcomeTitle = "Welcome to TrackNest!"

// CreateUser stores a new user with a freshly generated API token and greets
// them with a welcome notification.
func (s *Store) CreateUser(ctx context.Context, name string) (models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, errors.New("create user: name is empty")
	}

	u := models.User{
		Name:      name,
		APIToken:  strings.ReplaceAll(uuid.NewString(), "-", ""),
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}

	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO users(name, api_token, created_at) VALUES(?, ?, ?)`,
			u.Name, u.APIToken, formatTime(u.CreatedAt))
		if err != nil {
			return err
		}
		if u.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		return s.createNotification(ctx, tx, models.Notification{
			UserID:  u.ID,
			Title:   welcomeTitle,
			Message: fmt.Sprintf("Hi %s, thanks for joining! Start by adding your first transaction or setting a budget.", u.Name),
			Kind:    models.NotificationSuccess,
		})
	})
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// UserByToken resolves an API token. Unknown and empty tokens return ErrNotFound.
func (s *Store) UserByToken(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrNotFound
	}

	var (
		u       models.User
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, api_token, created_at FROM users WHERE api_token = ?`, token,
	).Scan(&u.ID, &u.Name, &u.APIToken, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("lookup user by token: %w", err)
	}
	if u.CreatedAt, err = parseTime(created); err != nil {
		return models.User{}, err
	}
	return u, nil
}
