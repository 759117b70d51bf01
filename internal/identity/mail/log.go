package mail

import (
	"context"
	"log/slog"
)

// LogMailer writes outbound messages to the log instead of delivering them.
// Used in dev when no SMTP relay is configured so code flows stay testable.
type LogMailer struct {
	Logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{Logger: logger}
}

func (m *LogMailer) SendEmail(ctx context.Context, recipient, subject, body string) error {
	m.Logger.Info("email delivery skipped (log mailer)",
		"recipient", recipient,
		"subject", subject,
		"body", body,
	)
	return nil
}
