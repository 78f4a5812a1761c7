package notifications

import (
	"context"
	"fmt"
	"strings"

	config "github.com/tutorcenter/scheduler/configs"
	"github.com/tutorcenter/scheduler/metrics"
	"go.uber.org/zap"
)

type Message struct {
	ToName      string
	ToEmail     string
	Subject     string
	HTMLContent string
}

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// EmailClient is the configured backend. Nil means mail is disabled.
var EmailClient Sender

func InitEmailService(s *config.AppSettings) {
	switch s.EmailBackend {
	case "brevo":
		if s.BrevoAPIKey == "" || s.EmailSender == "" {
			zap.S().Warn("email service not configured: missing BREVO_API_KEY or EMAIL_SENDER")
			EmailClient = nil
			return
		}
		EmailClient = NewBrevoService(s.BrevoAPIKey, s.EmailSender, s.EmailSenderName)
	case "sendgrid":
		if s.SendgridAPIKey == "" || s.EmailSender == "" {
			zap.S().Warn("email service not configured: missing SENDGRID_API_KEY or EMAIL_SENDER")
			EmailClient = nil
			return
		}
		EmailClient = NewSendgridService(s.SendgridAPIKey, s.EmailSender, s.EmailSenderName)
	case "console", "":
		EmailClient = NewConsoleService(s.EmailSender)
	default:
		zap.S().Warnw("unknown EMAIL_BACKEND, mail disabled", "backend", s.EmailBackend)
		EmailClient = nil
		return
	}
	zap.S().Infow("email service initialized", "backend", s.EmailBackend, "sender", s.EmailSender)
}

// SendEmail delivers msg through EmailClient. Delivery errors are returned
// to the caller; an unconfigured client skips the message.
func SendEmail(ctx context.Context, msg Message) error {
	if EmailClient == nil {
		zap.S().Warnw("email client not initialized, skipping email", "to", msg.ToEmail, "subject", msg.Subject)
		metrics.EmailsSent.WithLabelValues("skipped").Inc()
		return nil
	}
	if msg.ToEmail == "" || !strings.Contains(msg.ToEmail, "@") {
		metrics.EmailsSent.WithLabelValues("error").Inc()
		return fmt.Errorf("invalid recipient email: %q", msg.ToEmail)
	}
	if msg.ToName == "" {
		msg.ToName = msg.ToEmail[:strings.Index(msg.ToEmail, "@")]
	}

	if err := EmailClient.Send(ctx, msg); err != nil {
		metrics.EmailsSent.WithLabelValues("error").Inc()
		return fmt.Errorf("send email to %s: %w", msg.ToEmail, err)
	}
	metrics.EmailsSent.WithLabelValues("sent").Inc()
	zap.S().Debugw("email sent", "to", msg.ToEmail, "subject", msg.Subject)
	return nil
}
