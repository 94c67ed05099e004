package mailer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidAddress(t *testing.T) {
	tests := []struct {
		address string
		want    bool
	}{
		{"user@example.com", true},
		{"first.last@sub.example.org", true},
		{"u@e.co", true},
		{"", false},
		{"   ", false},
		{"plainstring", false},
		{"missing@dots", false},
		{"@example.com", false},
		{"user@.com", false},
		{"user@example.com.", false},
		{"User Name <user@example.com>", false},
		{"user@example.com, second@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidAddress(tt.address))
		})
	}
}

func TestDevSenderWritesEmail(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "emails")
	sender := NewDevSender(dir)

	err := sender.Send(context.Background(), "Registration code", "Your code is abc", "user@example.com")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	payload, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)

	var email struct {
		SendTo  string `json:"send_to"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	require.NoError(t, json.Unmarshal(payload, &email))
	assert.Equal(t, "user@example.com", email.SendTo)
	assert.Equal(t, "Registration code", email.Subject)
	assert.Equal(t, "Your code is abc", email.Body)
}

func TestDevSenderRejectsInvalidRecipient(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "emails")
	sender := NewDevSender(dir)

	err := sender.Send(context.Background(), "subject", "body", "not-an-email")
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "no directory should be created for rejected sends")
}
