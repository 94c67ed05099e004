// Package auth implements the email-code registration and verification
// flow: a fresh opaque code is mailed out per request, and an exact
// match mints a token pair for the user behind that email.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/senyehor/yamdb/internal/domain"
	"github.com/senyehor/yamdb/internal/mailer"
	"github.com/senyehor/yamdb/internal/repository"
)

const (
	codeEmailSubject = "Registration code"
	codeEmailBody    = "Your code is %s"
)

// CodeStore persists the email → one-time code mapping.
type CodeStore interface {
	Upsert(ctx context.Context, email, code string) error
	Get(ctx context.Context, email string) (domain.EmailCode, error)
}

// UserResolver looks up the user a verified email belongs to.
type UserResolver interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// Service drives the registration/verification state machine.
type Service struct {
	codes  CodeStore
	users  UserResolver
	sender mailer.Sender
	tokens *TokenIssuer
	logger *slog.Logger

	// generateCode is swappable in tests.
	generateCode func() string
}

// NewService wires the verification flow.
func NewService(codes CodeStore, users UserResolver, sender mailer.Sender, tokens *TokenIssuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		codes:        codes,
		users:        users,
		sender:       sender,
		tokens:       tokens,
		logger:       logger,
		generateCode: func() string { return uuid.NewString() },
	}
}

// RequestCode generates a fresh one-time code, mails it to the address,
// and stores it, overwriting any previous code for that email. A
// malformed email fails with ErrInvalidEmail before the notifier is
// invoked.
func (s *Service) RequestCode(ctx context.Context, email string) error {
	if !mailer.ValidAddress(email) {
		return ErrInvalidEmail
	}

	code := s.generateCode()
	if err := s.sender.Send(ctx, codeEmailSubject, fmt.Sprintf(codeEmailBody, code), email); err != nil {
		if errors.Is(err, mailer.ErrInvalidRecipient) {
			return ErrInvalidEmail
		}
		return fmt.Errorf("send code email: %w", err)
	}

	if err := s.codes.Upsert(ctx, email, code); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	s.logger.Info("auth: code issued", "email", email)
	return nil
}

// VerifyCode checks the submitted code against the stored one (exact,
// case-sensitive string equality) and on success issues a token pair
// for the user resolved by the email. The stored code is not consumed.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (TokenPair, error) {
	stored, err := s.codes.Get(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrEmailNotRegistered
		}
		return TokenPair{}, fmt.Errorf("load code: %w", err)
	}
	if stored.Code != code {
		return TokenPair{}, ErrCodeMismatch
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrUserNotFound
		}
		return TokenPair{}, fmt.Errorf("resolve user: %w", err)
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}

	s.logger.Info("auth: code verified", "email", email, "user_id", user.ID)
	return pair, nil
}
