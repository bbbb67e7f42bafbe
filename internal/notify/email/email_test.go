package email

import (
	"context"
	"errors"
	"testing"

	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/require"
)

// fakePostmark records the last email and returns a canned response.
type fakePostmark struct {
	sent postmark.Email
	resp postmark.EmailResponse
	err  error
}

func (f *fakePostmark) SendEmail(_ context.Context, email postmark.Email) (postmark.EmailResponse, error) {
	f.sent = email

	return f.resp, f.err
}

// TestNewPostmarkSender_Validation rejects incomplete configurations.
func TestNewPostmarkSender_Validation(t *testing.T) {
	t.Parallel()

	cases := map[string]Config{
		"no server token":  {AccountToken: "a", Sender: "ops@example.com"},
		"no account token": {ServerToken: "s", Sender: "ops@example.com"},
		"bad sender":       {ServerToken: "s", AccountToken: "a", Sender: "not-an-address"},
	}

	for name, cfg := range cases {
		s, err := NewPostmarkSender(cfg)
		require.ErrorIs(t, err, ErrInvalidConfig, name)
		require.Nil(t, s)
	}

	s, err := NewPostmarkSender(Config{ServerToken: "s", AccountToken: "a", Sender: "ops@example.com"})
	require.NoError(t, err)
	require.NotNil(t, s)
}

// TestPostmarkSender_SendEmail maps the arguments onto a Postmark message.
func TestPostmarkSender_SendEmail(t *testing.T) {
	t.Parallel()

	api := &fakePostmark{resp: postmark.EmailResponse{MessageID: "m-1"}}
	s := &PostmarkSender{api: api, sender: "controller@example.com"}

	err := s.SendEmail(context.Background(), "smartbuilding@uclan.ac.uk", "failed to log alarm", "web down")
	require.NoError(t, err)
	require.Equal(t, "controller@example.com", api.sent.From)
	require.Equal(t, "smartbuilding@uclan.ac.uk", api.sent.To)
	require.Equal(t, "failed to log alarm", api.sent.Subject)
	require.Equal(t, "web down", api.sent.TextBody)
	require.Equal(t, Tag, api.sent.Tag)
}

// TestPostmarkSender_Failures wraps transport and API errors.
func TestPostmarkSender_Failures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	transportErr := errors.New("connection reset")

	s := &PostmarkSender{api: &fakePostmark{err: transportErr}, sender: "c@example.com"}
	err := s.SendEmail(ctx, "ops@example.com", "s", "b")
	require.ErrorIs(t, err, ErrFailedToSendEmail)
	require.ErrorIs(t, err, transportErr)

	s = &PostmarkSender{
		api:    &fakePostmark{resp: postmark.EmailResponse{ErrorCode: 406, Message: "inactive recipient"}},
		sender: "c@example.com",
	}
	err = s.SendEmail(ctx, "ops@example.com", "s", "b")
	require.ErrorIs(t, err, ErrFailedToSendEmail)
	require.Contains(t, err.Error(), "inactive recipient")

	err = s.SendEmail(ctx, "nobody", "s", "b")
	require.ErrorIs(t, err, ErrInvalidRecipient)
}

// TestLogSender never fails.
func TestLogSender(t *testing.T) {
	t.Parallel()

	require.NoError(t, LogSender{}.SendEmail(context.Background(), "ops@example.com", "s", "b"))
}
