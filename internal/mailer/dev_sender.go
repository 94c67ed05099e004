package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DevSender writes emails to a local directory instead of sending them,
// for development environments without Postmark credentials.
type DevSender struct {
	dir string
}

// NewDevSender creates a development sender; the directory is created
// lazily on first send.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

type devEmail struct {
	Timestamp string `json:"timestamp"`
	SendTo    string `json:"send_to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Send implements Sender by dumping the message as a JSON file.
func (d *DevSender) Send(ctx context.Context, subject, body, toEmail string) error {
	if !ValidAddress(toEmail) {
		return ErrInvalidRecipient
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrSendFailed, err)
	}

	now := time.Now()
	payload, err := json.MarshalIndent(devEmail{
		Timestamp: now.Format(time.RFC3339),
		SendTo:    toEmail,
		Subject:   subject,
		Body:      body,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal email: %v", ErrSendFailed, err)
	}

	name := fmt.Sprintf("%s_%d.json", now.Format("2006_01_02_150405"), now.UnixNano()%1000)
	if err := os.WriteFile(filepath.Join(d.dir, name), payload, 0o644); err != nil {
		return fmt.Errorf("%w: write file: %v", ErrSendFailed, err)
	}
	return nil
}
