// Package mail delivers outbound account mail.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"incubator/internal/config"
)

// ActivationSubject is the subject line of activation mail.
const ActivationSubject = "Junior Incubator Activation"

// Message is a plain-text mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ActivationMessage builds the mail carrying an activation code.
func ActivationMessage(email, code string) Message {
	return Message{
		To:      email,
		Subject: ActivationSubject,
		Body:    fmt.Sprintf("Hello\nactivation_code = \n%s", code),
	}
}

// New returns the mailer selected by cfg.Driver: "smtp" or "log".
func New(cfg config.MailConfig, logger *slog.Logger) (Mailer, error) {
	switch cfg.Driver {
	case "smtp":
		return NewSMTPMailer(cfg)
	case "log", "":
		return NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("unsupported mail driver %q", cfg.Driver)
	}
}

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

// Send logs msg.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.InfoContext(ctx, "mail not delivered (log driver)",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
