// Package auth contiene el service de autenticación: credenciales locales,
// OTP por email, reset de password y OAuth con Google.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/edustack/edustack-server/internal/cache"
	"github.com/edustack/edustack-server/internal/email"
	"github.com/edustack/edustack-server/internal/oauth/google"
	"github.com/edustack/edustack-server/internal/observability/logger"
	"github.com/edustack/edustack-server/internal/security/password"
	"github.com/edustack/edustack-server/internal/security/token"
	"github.com/edustack/edustack-server/internal/store"
)

// Errores del service. El controller los mapea a AppError HTTP.
var (
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidInput       = errors.New("auth: invalid input")
	ErrOTPMismatch        = errors.New("auth: otp code mismatch or expired")
	ErrResetTokenInvalid  = errors.New("auth: reset token invalid or expired")
	ErrOAuthStateInvalid  = errors.New("auth: oauth state invalid or expired")
	ErrOAuthUnavailable   = errors.New("auth: oauth provider not configured")
	ErrUserNotFound       = errors.New("auth: user not found")
)

const (
	otpTTL        = 10 * time.Minute
	resetTTL      = 30 * time.Minute
	oauthStateTTL = 10 * time.Minute

	otpKeyPrefix   = "otp:"
	resetKeyPrefix = "pwreset:"
	stateKeyPrefix = "oauthstate:"
)

// UserStore es el subconjunto del repo de usuarios que el service necesita.
type UserStore interface {
	Create(ctx context.Context, u *store.User) error
	GetByEmail(ctx context.Context, email string) (*store.User, error)
	GetByID(ctx context.Context, id string) (*store.User, error)
	SetPassword(ctx context.Context, id, hash string) error
	MarkEmailVerified(ctx context.Context, id string) error
	UpsertOAuth(ctx context.Context, provider, providerID, email, name string) (*store.User, error)
}

// Service expone las operaciones de autenticación.
type Service interface {
	Signup(ctx context.Context, email, pass, name string) (*store.User, string, error)
	Login(ctx context.Context, email, pass string) (*store.User, string, error)
	Me(ctx context.Context, userID string) (*store.User, error)

	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPass string) error

	GoogleAuthURL(ctx context.Context) (string, error)
	GoogleCallback(ctx context.Context, state, code string) (*store.User, string, error)
}

// Deps son las dependencias del service.
type Deps struct {
	Users  UserStore
	Tokens *token.Manager
	Cache  cache.Client
	Email  email.Sender
	Google *google.Client
	// FrontendURL se usa para armar el link de reset en el correo.
	FrontendURL string
}

type service struct {
	deps Deps
}

// NewService crea el service de auth.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) Signup(ctx context.Context, mail, pass, name string) (*store.User, string, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("Signup"))

	mail = strings.ToLower(strings.TrimSpace(mail))
	if !validEmail(mail) || len(pass) < 8 {
		return nil, "", ErrInvalidInput
	}

	hash, err := password.Hash(password.Default, pass)
	if err != nil {
		log.Error("password hash failed", logger.Err(err))
		return nil, "", err
	}

	u := &store.User{
		Email:        mail,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
	}
	if err := s.deps.Users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		log.Error("user create failed", logger.Err(err))
		return nil, "", err
	}

	signed, sessionID, err := s.deps.Tokens.Sign(u.ID)
	if err != nil {
		return nil, "", err
	}

	log.Info("user signed up", logger.UserID(u.ID), logger.SessionID(sessionID))
	return u, signed, nil
}

func (s *service) Login(ctx context.Context, mail, pass string) (*store.User, string, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("Login"))

	mail = strings.ToLower(strings.TrimSpace(mail))
	u, err := s.deps.Users.GetByEmail(ctx, mail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Igualar el costo con un verify dummy no vale el ruido aquí;
			// el rate limiter por IP acota la enumeración.
			return nil, "", ErrInvalidCredentials
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, "", err
	}

	if u.PasswordHash == "" || !password.Verify(pass, u.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	signed, sessionID, err := s.deps.Tokens.Sign(u.ID)
	if err != nil {
		return nil, "", err
	}

	log.Info("user logged in", logger.UserID(u.ID), logger.SessionID(sessionID))
	return u, signed, nil
}

func (s *service) Me(ctx context.Context, userID string) (*store.User, error) {
	u, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// SendOTP genera un código de 6 dígitos, lo guarda en cache con TTL y lo
// envía por correo. Si el email no existe igual respondemos OK: no se
// filtra qué cuentas existen.
func (s *service) SendOTP(ctx context.Context, mail string) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("SendOTP"))

	mail = strings.ToLower(strings.TrimSpace(mail))
	if !validEmail(mail) {
		return ErrInvalidInput
	}

	if _, err := s.deps.Users.GetByEmail(ctx, mail); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("otp requested for unknown email")
			return nil
		}
		return err
	}

	code, err := numericCode(6)
	if err != nil {
		return err
	}
	if err := s.deps.Cache.Set(ctx, otpKeyPrefix+mail, code, otpTTL); err != nil {
		log.Error("otp cache set failed", logger.Err(err))
		return err
	}

	body := fmt.Sprintf("Tu código de verificación es: %s\n\nExpira en 10 minutos.", code)
	if err := s.deps.Email.Send(mail, "Código de verificación", "", body); err != nil {
		return err
	}

	log.Info("otp sent")
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, mail, code string) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("VerifyOTP"))

	mail = strings.ToLower(strings.TrimSpace(mail))
	stored, err := s.deps.Cache.Get(ctx, otpKeyPrefix+mail)
	if err != nil {
		if cache.IsNotFound(err) {
			return ErrOTPMismatch
		}
		return err
	}
	if code == "" || stored != code {
		return ErrOTPMismatch
	}

	// Un código solo se consume una vez.
	_ = s.deps.Cache.Delete(ctx, otpKeyPrefix+mail)

	u, err := s.deps.Users.GetByEmail(ctx, mail)
	if err != nil {
		return err
	}
	if err := s.deps.Users.MarkEmailVerified(ctx, u.ID); err != nil {
		return err
	}

	log.Info("email verified", logger.UserID(u.ID))
	return nil
}

// ForgotPassword genera un token de reset y lo manda por correo.
// Respuesta idéntica exista o no la cuenta.
func (s *service) ForgotPassword(ctx context.Context, mail string) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("ForgotPassword"))

	mail = strings.ToLower(strings.TrimSpace(mail))
	if !validEmail(mail) {
		return ErrInvalidInput
	}

	u, err := s.deps.Users.GetByEmail(ctx, mail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("password reset requested for unknown email")
			return nil
		}
		return err
	}

	tok, err := randomToken(32)
	if err != nil {
		return err
	}
	if err := s.deps.Cache.Set(ctx, resetKeyPrefix+tok, u.ID, resetTTL); err != nil {
		log.Error("reset token cache set failed", logger.Err(err))
		return err
	}

	link := strings.TrimRight(s.deps.FrontendURL, "/") + "/reset-password?token=" + tok
	body := fmt.Sprintf("Para restablecer tu password abre este enlace:\n\n%s\n\nExpira en 30 minutos.", link)
	if err := s.deps.Email.Send(mail, "Restablecer password", "", body); err != nil {
		return err
	}

	log.Info("password reset email sent", logger.UserID(u.ID))
	return nil
}

func (s *service) ResetPassword(ctx context.Context, resetToken, newPass string) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("ResetPassword"))

	if resetToken == "" || len(newPass) < 8 {
		return ErrInvalidInput
	}

	userID, err := s.deps.Cache.Get(ctx, resetKeyPrefix+resetToken)
	if err != nil {
		if cache.IsNotFound(err) {
			return ErrResetTokenInvalid
		}
		return err
	}
	_ = s.deps.Cache.Delete(ctx, resetKeyPrefix+resetToken)

	hash, err := password.Hash(password.Default, newPass)
	if err != nil {
		return err
	}
	if err := s.deps.Users.SetPassword(ctx, userID, hash); err != nil {
		return err
	}

	log.Info("password reset", logger.UserID(userID))
	return nil
}

// GoogleAuthURL genera el state anti-CSRF del flujo OAuth, lo guarda en
// cache y retorna la URL de autorización de Google.
func (s *service) GoogleAuthURL(ctx context.Context) (string, error) {
	if s.deps.Google == nil || !s.deps.Google.Configured() {
		return "", ErrOAuthUnavailable
	}

	state, err := randomToken(24)
	if err != nil {
		return "", err
	}
	if err := s.deps.Cache.Set(ctx, stateKeyPrefix+state, "1", oauthStateTTL); err != nil {
		return "", err
	}
	return s.deps.Google.AuthURL(ctx, state)
}

func (s *service) GoogleCallback(ctx context.Context, state, code string) (*store.User, string, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("GoogleCallback"))

	if s.deps.Google == nil || !s.deps.Google.Configured() {
		return nil, "", ErrOAuthUnavailable
	}

	if state == "" {
		return nil, "", ErrOAuthStateInvalid
	}
	if _, err := s.deps.Cache.Get(ctx, stateKeyPrefix+state); err != nil {
		if cache.IsNotFound(err) {
			return nil, "", ErrOAuthStateInvalid
		}
		return nil, "", err
	}
	_ = s.deps.Cache.Delete(ctx, stateKeyPrefix+state)

	info, err := s.deps.Google.Exchange(ctx, code)
	if err != nil {
		log.Error("google code exchange failed", logger.Err(err))
		return nil, "", err
	}

	u, err := s.deps.Users.UpsertOAuth(ctx, "google", info.Sub, strings.ToLower(info.Email), info.Name)
	if err != nil {
		log.Error("oauth upsert failed", logger.Err(err))
		return nil, "", err
	}

	signed, sessionID, err := s.deps.Tokens.Sign(u.ID)
	if err != nil {
		return nil, "", err
	}

	log.Info("oauth login", logger.UserID(u.ID), logger.SessionID(sessionID))
	return u, signed, nil
}

func validEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-3 && strings.Contains(s[at+1:], ".") && len(s) <= 254
}

func numericCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

func randomToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
