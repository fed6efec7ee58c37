// Package token firma y valida los JWT de sesión (HS256).
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookieName es la cookie que transporta el JWT de sesión.
const SessionCookieName = "edustack_session"

var (
	ErrInvalidToken = errors.New("token: invalid session token")
	ErrExpiredToken = errors.New("token: session token expired")
)

// Claims son las claims de sesión.
type Claims struct {
	UserID    string `json:"uid"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager firma y parsea tokens de sesión.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewManager crea un Manager. El secret se valida en config.Validate();
// aquí solo se asume presente.
func NewManager(secret, issuer string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Sign emite un token para el usuario dado. Retorna el token firmado y el
// session id generado (usado como identidad CSRF preferente).
func (m *Manager) Sign(userID string) (signed, sessionID string, err error) {
	sessionID = uuid.NewString()
	now := time.Now().UTC()

	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        sessionID,
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err = t.SignedString(m.secret)
	if err != nil {
		return "", "", err
	}
	return signed, sessionID, nil
}

// Parse valida un token y retorna sus claims.
func (m *Manager) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("token: unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !t.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TTL expone la duración de la sesión (para el max-age de la cookie).
func (m *Manager) TTL() time.Duration {
	return m.ttl
}
