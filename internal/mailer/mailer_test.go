package mailer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWelcome(t *testing.T) {
	m := Welcome("alice@example.com")
	require.Equal(t, "alice@example.com", m.To)
	require.Equal(t, "Welcome to Our Platform", m.Subject)
	require.Equal(t, "Congratulations! You have successfully signed up for our platform.", m.Body)
}

func TestSMTPSenderBuild(t *testing.T) {
	s, err := NewSMTPSender(SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "noreply@example.com",
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)

	msg, err := s.build(Welcome("alice@example.com"))
	require.NoError(t, err)

	var buf strings.Builder
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()
	require.Contains(t, out, "Subject: Welcome to Our Platform")
	require.Contains(t, out, "<alice@example.com>")
	require.Contains(t, out, "<noreply@example.com>")
}

func TestSMTPSenderRejectsBadRecipient(t *testing.T) {
	s, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 25, From: "noreply@example.com"})
	require.NoError(t, err)

	err = s.Send(context.Background(), Message{To: "not an address", Subject: "x", Body: "y"})
	require.Error(t, err)
}

func TestLogSender(t *testing.T) {
	require.NoError(t, LogSender{}.Send(context.Background(), Welcome("bob@example.com")))
}
