package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/trade-logger/internal/models"
)

// TradeRepository defines the interface for trade data access
type TradeRepository interface {
	Create(ctx context.Context, trade *models.Trade) error
	GetByID(ctx context.Context, id, userID int64) (*models.Trade, error)
	ListByUser(ctx context.Context, userID int64, filter models.TradeFilter) ([]*models.Trade, error)
	ListByStrategy(ctx context.Context, strategyID int64, limit int) ([]*models.Trade, error)
	Update(ctx context.Context, trade *models.Trade) error
	Delete(ctx context.Context, id, userID int64) error
	DistinctInstruments(ctx context.Context, userID int64) ([]string, error)
}

// StrategyRepository defines the interface for strategy data access.
// Create, Update and Delete run their multi-step writes inside a transaction.
type StrategyRepository interface {
	Create(ctx context.Context, strategy *models.Strategy) error
	GetByID(ctx context.Context, id, userID int64) (*models.Strategy, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Strategy, error)
	Update(ctx context.Context, strategy *models.Strategy) error
	Delete(ctx context.Context, id, userID int64) error
	CountByUser(ctx context.Context, userID int64) (int, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Register(ctx context.Context, user *models.User, verification *models.EmailMessage) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*models.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	MarkVerified(ctx context.Context, id int64) error
	SetResetToken(ctx context.Context, id int64, token string, expires time.Time, reset *models.EmailMessage) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateAccountSize(ctx context.Context, id int64, size decimal.Decimal) error
	UpdateStrategyLimit(ctx context.Context, id int64, limit int) error
	Exists(ctx context.Context, username, email string) (bool, error)
	List(ctx context.Context) ([]*models.UserSummary, error)
}

// SessionRepository defines the interface for login session data access
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Touch(ctx context.Context, token string) error
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, maxAge time.Duration) (int64, error)
	Count(ctx context.Context) (int, error)
}

// EmailRepository defines the interface for the outbound email queue
type EmailRepository interface {
	Pending(ctx context.Context, limit int) ([]*models.EmailMessage, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
	CountPending(ctx context.Context) (int, error)
}
