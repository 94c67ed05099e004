package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senyehor/yamdb/internal/domain"
	"github.com/senyehor/yamdb/internal/repository"
)

type fakeCodeStore struct {
	codes map[string]string
}

func (f *fakeCodeStore) Upsert(_ context.Context, email, code string) error {
	if f.codes == nil {
		f.codes = map[string]string{}
	}
	f.codes[email] = code
	return nil
}

func (f *fakeCodeStore) Get(_ context.Context, email string) (domain.EmailCode, error) {
	code, ok := f.codes[email]
	if !ok {
		return domain.EmailCode{}, repository.ErrNotFound
	}
	return domain.EmailCode{Email: email, Code: code}, nil
}

type fakeUserResolver struct {
	users map[string]domain.User
}

func (f *fakeUserResolver) GetByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := f.users[email]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return user, nil
}

type recordingSender struct {
	sent []sentEmail
}

type sentEmail struct {
	subject string
	body    string
	to      string
}

func (r *recordingSender) Send(_ context.Context, subject, body, toEmail string) error {
	r.sent = append(r.sent, sentEmail{subject: subject, body: body, to: toEmail})
	return nil
}

func newTestService(users map[string]domain.User) (*Service, *fakeCodeStore, *recordingSender) {
	codes := &fakeCodeStore{}
	sender := &recordingSender{}
	issuer := NewTokenIssuer(testAuthConfig())
	svc := NewService(codes, &fakeUserResolver{users: users}, sender, issuer, nil)
	return svc, codes, sender
}

func TestServiceRequestCode(t *testing.T) {
	svc, codes, sender := newTestService(nil)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "a@b.com"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Registration code", sender.sent[0].subject)
	assert.Equal(t, "a@b.com", sender.sent[0].to)
	assert.Contains(t, sender.sent[0].body, codes.codes["a@b.com"])
}

func TestServiceRequestCodeInvalidEmail(t *testing.T) {
	svc, codes, sender := newTestService(nil)
	ctx := context.Background()

	for _, email := range []string{"", "plainstring", "no@dots", "a@.com", "a@b.com."} {
		err := svc.RequestCode(ctx, email)
		assert.ErrorIs(t, err, ErrInvalidEmail, "email %q", email)
	}
	assert.Empty(t, sender.sent, "notifier must not run for invalid emails")
	assert.Empty(t, codes.codes)
}

func TestServiceRequestCodeOverwrites(t *testing.T) {
	svc, codes, _ := newTestService(nil)
	ctx := context.Background()
	svc.generateCode = makeSequenceGenerator("code-1", "code-2")

	require.NoError(t, svc.RequestCode(ctx, "a@b.com"))
	require.NoError(t, svc.RequestCode(ctx, "a@b.com"))

	assert.Equal(t, "code-2", codes.codes["a@b.com"])
}

func TestServiceVerifyCode(t *testing.T) {
	user := domain.User{ID: "user-1", Email: "a@b.com", CreatedAt: time.Now()}
	svc, _, _ := newTestService(map[string]domain.User{"a@b.com": user})
	ctx := context.Background()
	svc.generateCode = makeSequenceGenerator("the-code")

	require.NoError(t, svc.RequestCode(ctx, "a@b.com"))

	pair, err := svc.VerifyCode(ctx, "a@b.com", "the-code")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	// Codes survive verification: a second submission still succeeds.
	_, err = svc.VerifyCode(ctx, "a@b.com", "the-code")
	assert.NoError(t, err)
}

func TestServiceVerifyCodeMismatch(t *testing.T) {
	user := domain.User{ID: "user-1", Email: "a@b.com"}
	svc, _, _ := newTestService(map[string]domain.User{"a@b.com": user})
	ctx := context.Background()
	svc.generateCode = makeSequenceGenerator("the-code")

	require.NoError(t, svc.RequestCode(ctx, "a@b.com"))

	_, err := svc.VerifyCode(ctx, "a@b.com", "wrong")
	assert.ErrorIs(t, err, ErrCodeMismatch)

	_, err = svc.VerifyCode(ctx, "a@b.com", "THE-CODE")
	assert.ErrorIs(t, err, ErrCodeMismatch, "comparison must be case-sensitive")
}

func TestServiceVerifyCodeNeverRequested(t *testing.T) {
	svc, _, _ := newTestService(nil)

	_, err := svc.VerifyCode(context.Background(), "never@requested.com", "anything")
	assert.ErrorIs(t, err, ErrEmailNotRegistered)
}

func TestServiceVerifyCodeUnknownUser(t *testing.T) {
	svc, _, _ := newTestService(nil)
	ctx := context.Background()
	svc.generateCode = makeSequenceGenerator("the-code")

	require.NoError(t, svc.RequestCode(ctx, "ghost@b.com"))

	_, err := svc.VerifyCode(ctx, "ghost@b.com", "the-code")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func makeSequenceGenerator(codes ...string) func() string {
	i := 0
	return func() string {
		code := codes[i%len(codes)]
		i++
		return code
	}
}
