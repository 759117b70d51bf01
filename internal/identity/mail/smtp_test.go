package mail

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("noreply@crewlink.app", "a@x.com", "Email Verification", "Your code is 00042."))

	head, body, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found, "message should separate headers from body with a blank line")

	require.Contains(t, head, "From: noreply@crewlink.app\r\n")
	require.Contains(t, head, "To: a@x.com\r\n")
	require.Contains(t, head, "Subject: Email Verification\r\n")
	require.Contains(t, head, "Content-Type: text/plain; charset=UTF-8")
	require.Equal(t, "Your code is 00042.", body)
}

func TestBuildFromAddress(t *testing.T) {
	require.Equal(t, "noreply@crewlink.app", buildFromAddress("noreply@crewlink.app", ""))
	require.Equal(t, "noreply@crewlink.app", buildFromAddress("noreply@crewlink.app", "   "))

	withName := buildFromAddress("noreply@crewlink.app", "CrewLink")
	require.Contains(t, withName, "CrewLink")
	require.Contains(t, withName, "<noreply@crewlink.app>")
}

func TestSendEmail_NotConfigured(t *testing.T) {
	m := NewSMTPMailer(Config{})
	err := m.SendEmail(context.Background(), "a@x.com", "s", "b")
	require.ErrorContains(t, err, "not configured")
}

func TestSendEmail_InvalidRecipient(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "localhost", Port: 2525, From: "noreply@crewlink.app"})
	err := m.SendEmail(context.Background(), "not-an-address", "s", "b")
	require.ErrorContains(t, err, "invalid recipient")
}
