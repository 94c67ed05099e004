// Package mailer implements the notifier capability used to deliver
// one-time registration codes.
package mailer

import (
	"context"
	"errors"
	"net/mail"
	"strings"
)

var (
	// ErrInvalidRecipient indicates a malformed destination address.
	ErrInvalidRecipient = errors.New("mailer: invalid recipient")

	// ErrSendFailed indicates the underlying transport rejected the message.
	ErrSendFailed = errors.New("mailer: failed to send email")

	// ErrInvalidConfig indicates incomplete transport configuration.
	ErrInvalidConfig = errors.New("mailer: invalid config")
)

// Sender delivers a plain-text email to a single recipient.
type Sender interface {
	Send(ctx context.Context, subject, body, toEmail string) error
}

// ValidAddress reports whether the address parses per RFC 5322 and has
// a dotted domain, the shape expected for typical web signups.
func ValidAddress(address string) bool {
	if strings.TrimSpace(address) == "" {
		return false
	}
	addr, err := mail.ParseAddress(address)
	if err != nil || addr.Address != address {
		return false
	}
	parts := strings.Split(addr.Address, "@")
	if len(parts) != 2 || parts[0] == "" {
		return false
	}
	domain := parts[1]
	return strings.Contains(domain, ".") &&
		!strings.HasPrefix(domain, ".") &&
		!strings.HasSuffix(domain, ".")
}
