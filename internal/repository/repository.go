package repository

import (
	"fmt"

	"github.com/yourusername/trade-logger/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	User     UserRepository
	Trade    TradeRepository
	Strategy StrategyRepository
	Session  SessionRepository
	Email    EmailRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		User:     NewPostgresUserRepository(db),
		Trade:    NewPostgresTradeRepository(db),
		Strategy: NewPostgresStrategyRepository(db),
		Session:  NewPostgresSessionRepository(db),
		Email:    NewPostgresEmailRepository(db),
	}, nil
}
