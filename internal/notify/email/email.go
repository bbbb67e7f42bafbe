package email

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/mrz1836/postmark"

	"github.com/oshokin/building-controller/internal/domain/building"
	"github.com/oshokin/building-controller/internal/logger"
)

// Tag groups controller emails in the Postmark dashboard.
const Tag = "building-controller"

var (
	// ErrFailedToSendEmail wraps every delivery failure.
	ErrFailedToSendEmail = errors.New("failed to send email")
	// ErrInvalidConfig is returned for missing or malformed Postmark settings.
	ErrInvalidConfig = errors.New("invalid email config")
	// ErrInvalidRecipient is returned when the recipient is not an email address.
	ErrInvalidRecipient = errors.New("invalid recipient")
)

// Config holds Postmark credentials and the sender address.
type Config struct {
	// ServerToken authenticates message sending.
	ServerToken string
	// AccountToken authenticates account-level calls.
	AccountToken string
	// Sender is the From address.
	Sender string
}

// postmarkAPI is the subset of the Postmark client used here.
type postmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkSender sends plain-text emails through Postmark.
type PostmarkSender struct {
	api    postmarkAPI
	sender string
}

var (
	_ building.EmailNotifier = (*PostmarkSender)(nil)
	_ building.EmailNotifier = LogSender{}
)

// NewPostmarkSender validates cfg and creates a sender.
func NewPostmarkSender(cfg Config) (*PostmarkSender, error) {
	if cfg.ServerToken == "" {
		return nil, fmt.Errorf("%w: server token is required", ErrInvalidConfig)
	}

	if cfg.AccountToken == "" {
		return nil, fmt.Errorf("%w: account token is required", ErrInvalidConfig)
	}

	if _, err := mail.ParseAddress(cfg.Sender); err != nil {
		return nil, fmt.Errorf("%w: sender: %w", ErrInvalidConfig, err)
	}

	return &PostmarkSender{
		api:    postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		sender: cfg.Sender,
	}, nil
}

// SendEmail delivers a plain-text message.
func (s *PostmarkSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if _, err := mail.ParseAddress(to); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, to)
	}

	resp, err := s.api.SendEmail(ctx, postmark.Email{
		From:     s.sender,
		To:       to,
		Subject:  subject,
		TextBody: body,
		Tag:      Tag,
	})
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}

	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}

	logger.InfoKV(ctx, "Email sent", "to", to, "subject", subject, "message_id", resp.MessageID)

	return nil
}

// LogSender writes emails to the log instead of delivering them.
type LogSender struct{}

// SendEmail logs the message at warn level.
func (LogSender) SendEmail(ctx context.Context, to, subject, body string) error {
	logger.WarnKV(ctx, "Email not delivered, no provider configured", "to", to, "subject", subject, "body", body)

	return nil
}
