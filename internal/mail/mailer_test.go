package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/mediaportal/portal-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	m.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	var gotAddr string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotMsg = msg
		assert.Equal(t, "noreply@example.com", from)
		assert.Equal(t, []string{"a@example.com"}, to)
		return nil
	}

	require.NoError(t, m.Send(context.Background(), "a@example.com", "Hi\r\nBcc: x@evil", "line1\nline2"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: Hi  Bcc: x@evil\r\n")
	assert.True(t, strings.HasSuffix(msg, "line1\r\nline2"))
}

func TestSMTPMailer_SendError(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "h", Port: 25})
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }
	assert.ErrorContains(t, m.Send(context.Background(), "a@b.c", "s", "b"), "refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, "a@b.c", "s", "b"), context.Canceled)
}
