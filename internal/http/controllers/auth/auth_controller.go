// Package auth contiene los controllers de autenticación.
package auth

import (
	"errors"
	"net/http"

	dto "github.com/edustack/edustack-server/internal/http/dto/auth"
	httperrors "github.com/edustack/edustack-server/internal/http/errors"
	"github.com/edustack/edustack-server/internal/http/helpers"
	"github.com/edustack/edustack-server/internal/http/middlewares"
	svc "github.com/edustack/edustack-server/internal/http/services/auth"
	"github.com/edustack/edustack-server/internal/observability/logger"
	"github.com/edustack/edustack-server/internal/security/token"
	"github.com/edustack/edustack-server/internal/store"
)

// Controller maneja los endpoints de /api/auth.
type Controller struct {
	service svc.Service
	prod    bool
	ttl     int // segundos, max-age de la cookie de sesión
	// frontendURL es el destino del redirect post-OAuth.
	frontendURL string
}

// Config del controller.
type Config struct {
	Service     svc.Service
	Prod        bool
	TTLSeconds  int
	FrontendURL string
}

// NewController crea el controller de auth.
func NewController(cfg Config) *Controller {
	return &Controller{
		service:     cfg.Service,
		prod:        cfg.Prod,
		ttl:         cfg.TTLSeconds,
		frontendURL: cfg.FrontendURL,
	}
}

func (c *Controller) setSessionCookie(w http.ResponseWriter, signed string) {
	http.SetCookie(w, &http.Cookie{
		Name:     token.SessionCookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.prod,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   c.ttl,
	})
}

func (c *Controller) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     token.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.prod,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func userResponse(u *store.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// writeServiceError mapea errores del service a respuestas HTTP.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrInvalidInput):
		httperrors.WriteError(w, httperrors.ErrValidation)
	case errors.Is(err, svc.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("email already registered"))
	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
	case errors.Is(err, svc.ErrOTPMismatch):
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("invalid or expired code"))
	case errors.Is(err, svc.ErrResetTokenInvalid):
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("invalid or expired reset token"))
	case errors.Is(err, svc.ErrOAuthStateInvalid):
		httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("oauth state mismatch"))
	case errors.Is(err, svc.ErrOAuthUnavailable):
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable)
	case errors.Is(err, svc.ErrUserNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound)
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}

// Signup maneja POST /api/auth/signup.
func (c *Controller) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	u, signed, err := c.service.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	c.setSessionCookie(w, signed)
	helpers.WriteJSON(w, http.StatusCreated, dto.AuthResponse{User: userResponse(u)})
}

// Login maneja POST /api/auth/login.
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	u, signed, err := c.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	c.setSessionCookie(w, signed)
	helpers.WriteJSON(w, http.StatusOK, dto.AuthResponse{User: userResponse(u)})
}

// Logout maneja POST /api/auth/logout. Solo limpia la cookie: los JWT no
// se revocan server-side, su TTL los vence.
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	c.clearSessionCookie(w)
	helpers.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "logged out"})
}

// Me maneja GET /api/auth/me.
func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	u, err := c.service.Me(r.Context(), middlewares.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.AuthResponse{User: userResponse(u)})
}

// SendOTP maneja POST /api/auth/otp/send.
func (c *Controller) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.OTPSendRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	if err := c.service.SendOTP(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "code sent if the account exists"})
}

// VerifyOTP maneja POST /api/auth/otp/verify.
func (c *Controller) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.OTPVerifyRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	if err := c.service.VerifyOTP(r.Context(), req.Email, req.Code); err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "email verified"})
}

// ForgotPassword maneja POST /api/auth/password/forgot.
func (c *Controller) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	if err := c.service.ForgotPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "reset email sent if the account exists"})
}

// ResetPassword maneja POST /api/auth/password/reset.
func (c *Controller) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	if err := c.service.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "password updated"})
}

// GoogleStart maneja GET /api/auth/oauth/google: redirige a Google.
func (c *Controller) GoogleStart(w http.ResponseWriter, r *http.Request) {
	url, err := c.service.GoogleAuthURL(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// GoogleCallback maneja GET /api/auth/oauth/google/callback: canjea el code,
// setea la cookie de sesión y redirige al frontend.
func (c *Controller) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("Auth.GoogleCallback"))

	q := r.URL.Query()
	if errParam := q.Get("error"); errParam != "" {
		log.Warn("oauth callback returned error", logger.String("oauth_error", errParam))
		http.Redirect(w, r, c.frontendURL+"/login?error=oauth", http.StatusFound)
		return
	}

	_, signed, err := c.service.GoogleCallback(r.Context(), q.Get("state"), q.Get("code"))
	if err != nil {
		log.Warn("oauth callback failed", logger.Err(err))
		http.Redirect(w, r, c.frontendURL+"/login?error=oauth", http.StatusFound)
		return
	}

	c.setSessionCookie(w, signed)
	http.Redirect(w, r, c.frontendURL+"/", http.StatusFound)
}
