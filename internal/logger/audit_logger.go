// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogRegistration logs a new account registration.
func (al *AuditLogger) LogRegistration(userID int64, username, email string) {
	al.WithFields(logrus.Fields{
		"user_id":  userID,
		"username": username,
		"email":    email,
	}).Info("User registered")
}

// LogLogin logs a login attempt result.
func (al *AuditLogger) LogLogin(username, ipAddress string, success bool) {
	al.WithFields(logrus.Fields{
		"username":   username,
		"ip_address": ipAddress,
		"success":    success,
	}).Info("Login attempt recorded")
}

// LogPasswordReset logs a completed password reset.
func (al *AuditLogger) LogPasswordReset(userID int64) {
	al.WithField("user_id", userID).Info("Password reset completed")
}

// LogTradeDeletion logs removal of a trade and its screenshot.
func (al *AuditLogger) LogTradeDeletion(userID, tradeID int64, screenshot string) {
	al.WithFields(logrus.Fields{
		"user_id":    userID,
		"trade_id":   tradeID,
		"screenshot": screenshot,
	}).Info("Trade deleted")
}

// LogStrategyDeletion logs removal of a strategy.
func (al *AuditLogger) LogStrategyDeletion(userID, strategyID int64) {
	al.WithFields(logrus.Fields{
		"user_id":     userID,
		"strategy_id": strategyID,
	}).Info("Strategy deleted")
}

// LogStrategyLimitChange logs an admin adjusting a user's strategy limit.
func (al *AuditLogger) LogStrategyLimitChange(adminID, userID int64, oldLimit, newLimit int) {
	al.WithFields(logrus.Fields{
		"admin_id":  adminID,
		"user_id":   userID,
		"old_limit": oldLimit,
		"new_limit": newLimit,
	}).Info("Strategy limit changed")
}
