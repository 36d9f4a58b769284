package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered account
type User struct {
	ID                int64           `db:"id" json:"id"`
	Username          string          `db:"username" json:"username" validate:"required,min=3,max=50"`
	Email             string          `db:"email" json:"email" validate:"required,email"`
	PasswordHash      string          `db:"password_hash" json:"-"`
	EmailVerified     bool            `db:"email_verified" json:"email_verified"`
	IsAdmin           bool            `db:"is_admin" json:"is_admin"`
	StrategyLimit     int             `db:"strategy_limit" json:"strategy_limit"`
	AccountSize       decimal.Decimal `db:"account_size" json:"account_size"`
	VerificationToken *string         `db:"verification_token" json:"-"`
	ResetToken        *string         `db:"reset_token" json:"-"`
	ResetTokenExpires *time.Time      `db:"reset_token_expires" json:"-"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// UserSummary is the admin-facing view of a user with usage counts
type UserSummary struct {
	User
	TradeCount    int `db:"trade_count" json:"trade_count"`
	StrategyCount int `db:"strategy_count" json:"strategy_count"`
}

// Session represents a server-side login session
type Session struct {
	Token        string    `db:"token" json:"-"`
	UserID       int64     `db:"user_id" json:"user_id"`
	IPAddress    string    `db:"ip_address" json:"ip_address"`
	UserAgent    string    `db:"user_agent" json:"user_agent"`
	LastActivity time.Time `db:"last_activity" json:"last_activity"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// EmailStatus tracks delivery state of a queued message
type EmailStatus string

const (
	EmailPending EmailStatus = "pending"
	EmailSent    EmailStatus = "sent"
	EmailFailed  EmailStatus = "failed"
)

// EmailMessage is a queued outbound email. Messages are enqueued inside the
// transaction of the write that triggered them and dispatched asynchronously.
type EmailMessage struct {
	ID        int64       `db:"id" json:"id"`
	ToEmail   string      `db:"to_email" json:"to_email"`
	Subject   string      `db:"subject" json:"subject"`
	Body      string      `db:"body" json:"body"`
	Status    EmailStatus `db:"status" json:"status"`
	Attempts  int         `db:"attempts" json:"attempts"`
	LastError *string     `db:"last_error" json:"last_error"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	SentAt    *time.Time  `db:"sent_at" json:"sent_at"`
}
