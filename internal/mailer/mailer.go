// Package mailer dispatches queued emails through an HTTP mail API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/trade-logger/internal/config"
	"github.com/yourusername/trade-logger/internal/metrics"
	"github.com/yourusername/trade-logger/internal/models"
	"github.com/yourusername/trade-logger/internal/repository"
)

// Mailer drains the outbound email queue and posts each message to the
// configured mail API. When disabled it logs the messages and marks them
// sent, which keeps development environments free of real deliveries.
type Mailer struct {
	emails repository.EmailRepository
	cfg    config.MailerConfig
	client *retryablehttp.Client
	logger *logrus.Logger
}

// New creates a mailer. The HTTP client retries transient failures with
// exponential backoff before the message is marked failed.
func New(emails repository.EmailRepository, cfg config.MailerConfig, log *logrus.Logger) *Mailer {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.RetryMax
	client.HTTPClient.Timeout = 15 * time.Second
	client.Logger = nil

	return &Mailer{
		emails: emails,
		cfg:    cfg,
		client: client,
		logger: log,
	}
}

type apiPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// DispatchPending sends up to one batch of queued messages and returns the
// number delivered. Individual failures are recorded per message and never
// abort the batch.
func (m *Mailer) DispatchPending(ctx context.Context) (int, error) {
	pending, err := m.emails.Pending(ctx, m.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending emails: %w", err)
	}

	sent := 0
	for _, msg := range pending {
		if err := m.send(ctx, msg); err != nil {
			m.logger.WithError(err).WithField("email_id", msg.ID).Warn("Email delivery failed")
			metrics.EmailsDispatchedTotal.WithLabelValues("failure").Inc()
			if markErr := m.emails.MarkFailed(ctx, msg.ID, err.Error()); markErr != nil {
				m.logger.WithError(markErr).Warn("Failed to mark email failed")
			}
			continue
		}
		metrics.EmailsDispatchedTotal.WithLabelValues("success").Inc()
		if err := m.emails.MarkSent(ctx, msg.ID); err != nil {
			m.logger.WithError(err).Warn("Failed to mark email sent")
			continue
		}
		sent++
	}

	if remaining, err := m.emails.CountPending(ctx); err == nil {
		metrics.PendingEmails.Set(float64(remaining))
	}

	return sent, nil
}

func (m *Mailer) send(ctx context.Context, msg *models.EmailMessage) error {
	if !m.cfg.Enabled {
		m.logger.WithFields(logrus.Fields{
			"to":      msg.ToEmail,
			"subject": msg.Subject,
		}).Info("Mailer disabled, logging email instead of sending")
		return nil
	}

	body, err := json.Marshal(apiPayload{
		From:    m.cfg.FromAddress,
		To:      msg.ToEmail,
		Subject: msg.Subject,
		Text:    msg.Body,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, m.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call mail API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}
	return nil
}
