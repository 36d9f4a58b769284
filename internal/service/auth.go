package service

import (
	"context"
	"fmt"
	"regexp"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/trade-logger/internal/config"
	"github.com/yourusername/trade-logger/internal/logger"
	"github.com/yourusername/trade-logger/internal/metrics"
	"github.com/yourusername/trade-logger/internal/models"
	"github.com/yourusername/trade-logger/internal/repository"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)

// AuthService implements registration, login, email verification, password
// reset and session management.
type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	cfg      config.AuthConfig
	limits   config.LimitsConfig
	attempts *cache.Cache
	logger   *logrus.Logger
	audit    *logger.AuditLogger
}

// NewAuthService creates a new auth service. Failed login attempts are
// tracked in an in-memory cache keyed by identifier and client IP, expiring
// after the configured lockout window.
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	cfg config.AuthConfig,
	limits config.LimitsConfig,
	log *logrus.Logger,
	audit *logger.AuditLogger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		limits:   limits,
		attempts: cache.New(cfg.LoginLockout(), 2*cfg.LoginLockout()),
		logger:   log,
		audit:    audit,
	}
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new unverified account and queues a verification email.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if !usernamePattern.MatchString(in.Username) {
		return nil, models.NewValidationError("Username must be 3-50 characters and contain only letters, numbers, underscores and hyphens")
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, models.NewValidationError("Invalid email address")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, in.Username, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if exists {
		return nil, models.NewValidationError("Username or email already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	token := uuid.NewString()
	user := &models.User{
		Username:          in.Username,
		Email:             in.Email,
		PasswordHash:      string(hash),
		StrategyLimit:     s.limits.DefaultStrategyLimit,
		AccountSize:       decimal.NewFromFloat(s.limits.DefaultAccountSize),
		VerificationToken: &token,
	}

	verification := &models.EmailMessage{
		ToEmail: in.Email,
		Subject: "Verify your email address",
		Body:    fmt.Sprintf("Welcome %s! Use this token to verify your account: %s", in.Username, token),
	}

	if err := s.users.Register(ctx, user, verification); err != nil {
		return nil, &models.PersistenceError{Op: "register user", Err: err}
	}

	s.audit.LogRegistration(user.ID, user.Username, user.Email)
	return user, nil
}

// Login authenticates by username or email and opens a session. Failed
// attempts are throttled per identifier and IP; the error message never
// reveals whether the account exists.
func (s *AuthService) Login(ctx context.Context, identifier, password, ipAddress, userAgent string) (*models.Session, *models.User, error) {
	key := identifier + "|" + ipAddress
	if n, ok := s.attempts.Get(key); ok && n.(int) >= s.cfg.LoginMaxAttempts {
		metrics.RecordLogin(false)
		return nil, nil, models.NewValidationError("Too many failed login attempts. Please try again later.")
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if err == models.ErrNotFound {
			s.recordFailure(key, identifier, ipAddress)
			return nil, nil, models.NewValidationError("Invalid username/email or password")
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(key, identifier, ipAddress)
		return nil, nil, models.NewValidationError("Invalid username/email or password")
	}

	if !user.EmailVerified {
		metrics.RecordLogin(false)
		return nil, nil, models.NewValidationError("Please verify your email address before logging in")
	}

	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, &models.PersistenceError{Op: "create session", Err: err}
	}

	s.attempts.Delete(key)
	metrics.RecordLogin(true)
	metrics.ActiveSessions.Inc()
	s.audit.LogLogin(user.Username, ipAddress, true)
	return session, user, nil
}

func (s *AuthService) recordFailure(key, identifier, ipAddress string) {
	if err := s.attempts.Increment(key, 1); err != nil {
		s.attempts.Set(key, 1, cache.DefaultExpiration)
	}
	metrics.RecordLogin(false)
	s.audit.LogLogin(identifier, ipAddress, false)
}

// Logout deletes the session for the given token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return err
	}
	metrics.ActiveSessions.Dec()
	return nil
}

// CurrentUser resolves a session token to its user. Sessions past their
// lifetime are deleted and treated as missing; live sessions have their
// activity timestamp refreshed.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if time.Since(session.LastActivity) > s.cfg.SessionLifetime() {
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.logger.WithError(err).Warn("Failed to delete expired session")
		}
		return nil, models.ErrNotFound
	}

	if err := s.sessions.Touch(ctx, token); err != nil {
		s.logger.WithError(err).Warn("Failed to touch session")
	}

	return s.users.GetByID(ctx, session.UserID)
}

// VerifyEmail marks the account holding the token as verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		if err == models.ErrNotFound {
			return models.NewValidationError("Invalid or expired verification token")
		}
		return err
	}
	return s.users.MarkVerified(ctx, user.ID)
}

// RequestPasswordReset issues a reset token and queues the reset email. It
// succeeds silently for unknown addresses so callers cannot probe which
// emails are registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByUsernameOrEmail(ctx, email)
	if err != nil {
		if err == models.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token := uuid.NewString()
	expires := time.Now().Add(s.cfg.PasswordResetExpiry())
	reset := &models.EmailMessage{
		ToEmail: user.Email,
		Subject: "Password reset request",
		Body:    fmt.Sprintf("Use this token to reset your password: %s. It expires in %d minutes.", token, int(s.cfg.PasswordResetExpiry().Minutes())),
	}

	if err := s.users.SetResetToken(ctx, user.ID, token, expires, reset); err != nil {
		return &models.PersistenceError{Op: "set reset token", Err: err}
	}
	return nil
}

// ResetPassword sets a new password for the account holding a live reset
// token and revokes all of its sessions.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if err == models.ErrNotFound {
			return models.NewValidationError("Invalid or expired reset token")
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return &models.PersistenceError{Op: "update password", Err: err}
	}

	if err := s.sessions.DeleteByUser(ctx, user.ID); err != nil {
		s.logger.WithError(err).Warn("Failed to revoke sessions after password reset")
	}

	s.audit.LogPasswordReset(user.ID)
	return nil
}

// UpdateAccountSize sets the starting balance used by the equity curve.
func (s *AuthService) UpdateAccountSize(ctx context.Context, userID int64, size decimal.Decimal) error {
	if size.IsNegative() {
		return models.NewValidationError("Account size cannot be negative")
	}
	return s.users.UpdateAccountSize(ctx, userID, size)
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validatePassword(password string) error {
	if len(password) < 8 {
		return models.NewValidationError("Password must be at least 8 characters")
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return models.NewValidationError("Password must contain at least one uppercase letter, one lowercase letter and one number")
	}
	return nil
}
