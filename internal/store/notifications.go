package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tracknest/ingest/internal/models"
)

// ListNotifications returns the user's notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT id, user_id, title, message, kind, is_read, created_at
	FROM notifications
	WHERE user_id = ?
	ORDER BY created_at DESC, id DESC
	LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var (
			n       models.Notification
			created string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Kind, &n.IsRead, &created); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if n.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead marks one of the user's notifications as read. A
// notification owned by someone else is reported as ErrNotFound.
func (s *Store) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	return nil
}

// MarkAllNotificationsRead marks every unread notification of the user as
// read and returns how many changed.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return n, nil
}

func (s *Store) createNotification(ctx context.Context, q queryer, n models.Notification) error {
	_, err := q.ExecContext(ctx, `
	INSERT INTO notifications(user_id, title, message, kind, is_read, created_at)
	VALUES(?, ?, ?, ?, 0, ?)`,
		n.UserID, n.Title, n.Message, string(n.Kind), formatTime(s.now()))
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// notifiedOn reports whether the user already got a notification titled
// title on the calendar day of t, in t's location.
func notifiedOn(ctx context.Context, q queryer, userID int64, title string, t time.Time) (bool, error) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1)

	var n int
	err := q.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM notifications
	WHERE user_id = ? AND title = ? AND created_at >= ? AND created_at < ?`,
		userID, title, formatTime(start), formatTime(end),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check notification: %w", err)
	}
	return n > 0, nil
}
