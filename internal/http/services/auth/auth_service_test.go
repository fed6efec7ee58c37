package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/edustack/edustack-server/internal/cache"
	"github.com/edustack/edustack-server/internal/email"
	"github.com/edustack/edustack-server/internal/security/token"
	"github.com/edustack/edustack-server/internal/store"
)

// fakeUsers implementa UserStore en memoria.
type fakeUsers struct {
	byEmail map[string]*store.User
	byID    map[string]*store.User
	seq     int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byEmail: make(map[string]*store.User),
		byID:    make(map[string]*store.User),
	}
}

func (f *fakeUsers) Create(ctx context.Context, u *store.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return store.ErrDuplicate
	}
	f.seq++
	u.ID = fmt.Sprintf("u-%03d", f.seq)
	u.CreatedAt = time.Now().UTC()
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, mail string) (*store.User, error) {
	if u, ok := f.byEmail[mail]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*store.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) SetPassword(ctx context.Context, id, hash string) error {
	u, ok := f.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) MarkEmailVerified(ctx context.Context, id string) error {
	u, ok := f.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	u.EmailVerified = true
	return nil
}

func (f *fakeUsers) UpsertOAuth(ctx context.Context, provider, providerID, mail, name string) (*store.User, error) {
	if u, ok := f.byEmail[mail]; ok {
		u.Provider = provider
		u.ProviderID = providerID
		return u, nil
	}
	u := &store.User{Email: mail, Name: name, Provider: provider, ProviderID: providerID}
	_ = f.Create(ctx, u)
	return u, nil
}

// capturingSender guarda el último correo enviado.
type capturingSender struct {
	to, subject, text string
}

func (c *capturingSender) Send(to, subject, htmlBody, textBody string) error {
	c.to, c.subject, c.text = to, subject, textBody
	return nil
}

func newService(users UserStore, sender email.Sender) Service {
	if sender == nil {
		sender = email.NopSender{}
	}
	return NewService(Deps{
		Users:       users,
		Tokens:      token.NewManager("test-secret", "edustack", time.Hour),
		Cache:       cache.NewMemory("test:"),
		Email:       sender,
		FrontendURL: "http://localhost:5173",
	})
}

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	s := newService(users, nil)

	u, signed, err := s.Signup(ctx, "Ana@Example.COM", "hunter2hunter2", "Ana")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.Email != "ana@example.com" {
		t.Errorf("email should be lowercased, got %q", u.Email)
	}
	if signed == "" {
		t.Error("signup should return a session token")
	}
	if u.PasswordHash == "hunter2hunter2" {
		t.Error("password must be stored hashed")
	}

	if _, _, err := s.Login(ctx, "ana@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("login with correct password: %v", err)
	}
	if _, _, err := s.Login(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := s.Login(ctx, "ghost@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := newService(newFakeUsers(), nil)

	if _, _, err := s.Signup(ctx, "dup@example.com", "password123", ""); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, _, err := s.Signup(ctx, "dup@example.com", "password123", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignupValidatesInput(t *testing.T) {
	ctx := context.Background()
	s := newService(newFakeUsers(), nil)

	if _, _, err := s.Signup(ctx, "not-an-email", "password123", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad email: got %v", err)
	}
	if _, _, err := s.Signup(ctx, "ok@example.com", "short", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("short password: got %v", err)
	}
}

func TestOTPFlow(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	sender := &capturingSender{}
	s := newService(users, sender)

	u, _, _ := s.Signup(ctx, "otp@example.com", "password123", "")
	if u.EmailVerified {
		t.Fatal("fresh account should not be verified")
	}

	if err := s.SendOTP(ctx, "otp@example.com"); err != nil {
		t.Fatalf("send otp: %v", err)
	}
	if sender.to != "otp@example.com" {
		t.Fatalf("otp email went to %q", sender.to)
	}

	// El código viaja en el cuerpo del correo.
	code := extractDigits(sender.text, 6)
	if code == "" {
		t.Fatalf("no 6-digit code in email body: %q", sender.text)
	}

	if err := s.VerifyOTP(ctx, "otp@example.com", "000000"); !errors.Is(err, ErrOTPMismatch) {
		// Colisión 1 en 10^6 con el código real: aceptable en un test.
		t.Fatalf("wrong code: expected ErrOTPMismatch, got %v", err)
	}
	if err := s.VerifyOTP(ctx, "otp@example.com", code); err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if !users.byEmail["otp@example.com"].EmailVerified {
		t.Error("account should be verified after OTP")
	}

	// Un código no se consume dos veces.
	if err := s.VerifyOTP(ctx, "otp@example.com", code); !errors.Is(err, ErrOTPMismatch) {
		t.Fatalf("reused code: expected ErrOTPMismatch, got %v", err)
	}
}

func TestSendOTPUnknownEmailDoesNotLeak(t *testing.T) {
	ctx := context.Background()
	sender := &capturingSender{}
	s := newService(newFakeUsers(), sender)

	if err := s.SendOTP(ctx, "ghost@example.com"); err != nil {
		t.Fatalf("unknown email should not error: %v", err)
	}
	if sender.to != "" {
		t.Error("no email should be sent for unknown accounts")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	sender := &capturingSender{}
	s := newService(users, sender)

	_, _, _ = s.Signup(ctx, "reset@example.com", "oldpassword1", "")

	if err := s.ForgotPassword(ctx, "reset@example.com"); err != nil {
		t.Fatalf("forgot: %v", err)
	}

	// El token va en el link del correo.
	idx := strings.Index(sender.text, "token=")
	if idx < 0 {
		t.Fatalf("no reset link in email: %q", sender.text)
	}
	tok := strings.Fields(sender.text[idx+len("token="):])[0]

	if err := s.ResetPassword(ctx, "bogus-token", "newpassword1"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("bogus token: got %v", err)
	}
	if err := s.ResetPassword(ctx, tok, "newpassword1"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if _, _, err := s.Login(ctx, "reset@example.com", "newpassword1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, _, err := s.Login(ctx, "reset@example.com", "oldpassword1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("old password should no longer work")
	}

	// El token de reset es de un solo uso.
	if err := s.ResetPassword(ctx, tok, "anotherpass1"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("reused token: got %v", err)
	}
}

func TestGoogleFlowUnavailableWithoutCredentials(t *testing.T) {
	ctx := context.Background()
	s := newService(newFakeUsers(), nil)

	if _, err := s.GoogleAuthURL(ctx); !errors.Is(err, ErrOAuthUnavailable) {
		t.Fatalf("expected ErrOAuthUnavailable, got %v", err)
	}
	if _, _, err := s.GoogleCallback(ctx, "state", "code"); !errors.Is(err, ErrOAuthUnavailable) {
		t.Fatalf("expected ErrOAuthUnavailable, got %v", err)
	}
}

func extractDigits(s string, n int) string {
	run := 0
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if run == 0 {
				start = i
			}
			run++
			if run == n {
				return s[start : i+1]
			}
		} else {
			run = 0
		}
	}
	return ""
}
