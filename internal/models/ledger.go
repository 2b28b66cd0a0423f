package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User owns transactions. APIToken authenticates API requests.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	APIToken  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// PaymentMethod is how a transaction was paid, e.g. "GPay" or "Cash".
type PaymentMethod struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// Transaction is a persisted candidate.
type Transaction struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"-"`
	Title         string          `json:"title"`
	Amount        decimal.Decimal `json:"amount"`
	Kind          Kind            `json:"transaction_type"`
	Category      string          `json:"category_name"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	OccurredAt    time.Time       `json:"date"`
	Description   string          `json:"description,omitempty"`
	Source        Source          `json:"source"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NotificationKind drives how a client renders a notification.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationWarning NotificationKind = "warning"
	NotificationError   NotificationKind = "error"
)

// Notification is a message for a user, such as a budget alert.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"-"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"notification_type"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
