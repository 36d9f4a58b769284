package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/trade-logger/internal/models"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	users      map[int64]*models.User
	nextID     int64
	registered []*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*models.User), nextID: 1}
	for _, u := range users {
		r.users[u.ID] = u
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
	}
	return r
}

func (r *fakeUserRepo) Register(ctx context.Context, user *models.User, verification *models.EmailMessage) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	r.registered = append(r.registered, user)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeUserRepo) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	for _, u := range r.users {
		if u.VerificationToken != nil && *u.VerificationToken == token && !u.EmailVerified {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeUserRepo) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	for _, u := range r.users {
		if u.ResetToken != nil && *u.ResetToken == token {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeUserRepo) MarkVerified(ctx context.Context, id int64) error {
	if u, ok := r.users[id]; ok {
		u.EmailVerified = true
	}
	return nil
}

func (r *fakeUserRepo) SetResetToken(ctx context.Context, id int64, token string, expires time.Time, reset *models.EmailMessage) error {
	if u, ok := r.users[id]; ok {
		u.ResetToken = &token
		u.ResetTokenExpires = &expires
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if u, ok := r.users[id]; ok {
		u.PasswordHash = passwordHash
		u.ResetToken = nil
		u.ResetTokenExpires = nil
	}
	return nil
}

func (r *fakeUserRepo) UpdateAccountSize(ctx context.Context, id int64, size decimal.Decimal) error {
	if u, ok := r.users[id]; ok {
		u.AccountSize = size
	}
	return nil
}

func (r *fakeUserRepo) UpdateStrategyLimit(ctx context.Context, id int64, limit int) error {
	if u, ok := r.users[id]; ok {
		u.StrategyLimit = limit
	}
	return nil
}

func (r *fakeUserRepo) Exists(ctx context.Context, username, email string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*models.UserSummary, error) {
	out := make([]*models.UserSummary, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, &models.UserSummary{User: *u})
	}
	return out, nil
}

// fakeStrategyRepo is an in-memory StrategyRepository for service tests.
type fakeStrategyRepo struct {
	strategies map[int64]*models.Strategy
	nextID     int64
}

func newFakeStrategyRepo() *fakeStrategyRepo {
	return &fakeStrategyRepo{strategies: make(map[int64]*models.Strategy), nextID: 1}
}

func (r *fakeStrategyRepo) Create(ctx context.Context, strategy *models.Strategy) error {
	strategy.ID = r.nextID
	r.nextID++
	r.strategies[strategy.ID] = strategy
	return nil
}

func (r *fakeStrategyRepo) GetByID(ctx context.Context, id, userID int64) (*models.Strategy, error) {
	s, ok := r.strategies[id]
	if !ok || s.UserID != userID {
		return nil, models.ErrNotFound
	}
	return s, nil
}

func (r *fakeStrategyRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Strategy, error) {
	out := make([]*models.Strategy, 0)
	for _, s := range r.strategies {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStrategyRepo) Update(ctx context.Context, strategy *models.Strategy) error {
	existing, ok := r.strategies[strategy.ID]
	if !ok || existing.UserID != strategy.UserID {
		return models.ErrNotFound
	}
	r.strategies[strategy.ID] = strategy
	return nil
}

func (r *fakeStrategyRepo) Delete(ctx context.Context, id, userID int64) error {
	s, ok := r.strategies[id]
	if !ok || s.UserID != userID {
		return models.ErrNotFound
	}
	delete(r.strategies, id)
	return nil
}

func (r *fakeStrategyRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	count := 0
	for _, s := range r.strategies {
		if s.UserID == userID {
			count++
		}
	}
	return count, nil
}

// fakeTradeRepo is an in-memory TradeRepository for service tests.
type fakeTradeRepo struct {
	trades map[int64]*models.Trade
	nextID int64
}

func newFakeTradeRepo() *fakeTradeRepo {
	return &fakeTradeRepo{trades: make(map[int64]*models.Trade), nextID: 1}
}

func (r *fakeTradeRepo) Create(ctx context.Context, trade *models.Trade) error {
	trade.ID = r.nextID
	r.nextID++
	r.trades[trade.ID] = trade
	return nil
}

func (r *fakeTradeRepo) GetByID(ctx context.Context, id, userID int64) (*models.Trade, error) {
	t, ok := r.trades[id]
	if !ok || t.UserID != userID {
		return nil, models.ErrNotFound
	}
	return t, nil
}

func (r *fakeTradeRepo) ListByUser(ctx context.Context, userID int64, filter models.TradeFilter) ([]*models.Trade, error) {
	out := make([]*models.Trade, 0)
	for _, t := range r.trades {
		if t.UserID != userID {
			continue
		}
		if filter.StrategyID != nil && (t.StrategyID == nil || *t.StrategyID != *filter.StrategyID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTradeRepo) ListByStrategy(ctx context.Context, strategyID int64, limit int) ([]*models.Trade, error) {
	out := make([]*models.Trade, 0)
	for _, t := range r.trades {
		if t.StrategyID != nil && *t.StrategyID == strategyID {
			out = append(out, t)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeTradeRepo) Update(ctx context.Context, trade *models.Trade) error {
	existing, ok := r.trades[trade.ID]
	if !ok || existing.UserID != trade.UserID {
		return models.ErrNotFound
	}
	r.trades[trade.ID] = trade
	return nil
}

func (r *fakeTradeRepo) Delete(ctx context.Context, id, userID int64) error {
	t, ok := r.trades[id]
	if !ok || t.UserID != userID {
		return models.ErrNotFound
	}
	delete(r.trades, id)
	return nil
}

func (r *fakeTradeRepo) DistinctInstruments(ctx context.Context, userID int64) ([]string, error) {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, t := range r.trades {
		if t.UserID == userID && !seen[t.Instrument] {
			seen[t.Instrument] = true
			out = append(out, t.Instrument)
		}
	}
	return out, nil
}

// fakeSessionRepo is an in-memory SessionRepository for service tests.
type fakeSessionRepo struct {
	sessions map[string]*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *models.Session) error {
	if session.LastActivity.IsZero() {
		session.LastActivity = time.Now()
	}
	r.sessions[session.Token] = session
	return nil
}

func (r *fakeSessionRepo) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	s, ok := r.sessions[token]
	if !ok {
		return nil, models.ErrNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) Touch(ctx context.Context, token string) error {
	if s, ok := r.sessions[token]; ok {
		s.LastActivity = time.Now()
	}
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

func (r *fakeSessionRepo) DeleteByUser(ctx context.Context, userID int64) error {
	for token, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, token)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(ctx context.Context, maxAge time.Duration) (int64, error) {
	var purged int64
	for token, s := range r.sessions {
		if time.Since(s.LastActivity) > maxAge {
			delete(r.sessions, token)
			purged++
		}
	}
	return purged, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context) (int, error) {
	return len(r.sessions), nil
}
