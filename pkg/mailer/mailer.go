package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/mentorconnect/mentorconnect-api/pkg/logger"
	"github.com/mentorconnect/mentorconnect-api/pkg/metrics"
	"go.uber.org/zap"
)

// Mailer delivers a single email message
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer sends email over SMTP with STARTTLS
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates an SMTP-backed mailer from explicit configuration
func NewSMTPMailer(host string, port int, username, password, from string) (*SMTPMailer, error) {
	if host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if from == "" {
		return nil, fmt.Errorf("smtp sender address is required")
	}

	logger.Info("SMTP mailer initialized",
		zap.String("host", host),
		zap.Int("port", port),
		zap.String("from", from))

	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}, nil
}

// Send delivers one HTML email. The context deadline is honored only up to
// connection setup; smtp.SendMail itself is a blocking unary call.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	start := time.Now()
	operation := "sendEmail"

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		m.from, to, subject, htmlBody))

	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	err := smtp.SendMail(addr, auth, m.from, []string{to}, msg)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		logger.LogAPICall("smtp", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.LogAPICall("smtp", operation, "success", duration,
		zap.String("subject", subject))

	return nil
}
