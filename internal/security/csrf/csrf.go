// Package csrf implements the double-submit CSRF token scheme.
//
// An HttpOnly cookie carries a random secret; the token handed to the client
// is salt.HMAC-SHA256(serverKey, salt|secret|identity). On unsafe requests
// the client echoes the token in a header and the gate recomputes the HMAC
// against the cookie secret and the caller identity.
package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

// AnonymousIdentity es el sentinel usado cuando no hay sesión ni usuario.
const AnonymousIdentity = "anonymous"

// ErrMissingSecret indica que el signing key no está configurado.
// config.Validate() lo convierte en abort de arranque; nunca debe verse en runtime.
var ErrMissingSecret = errors.New("csrf: signing secret is not configured")

// Issuer genera y verifica tokens CSRF ligados a una identidad.
type Issuer struct {
	key []byte
}

// NewIssuer crea un Issuer. Falla si el secret está vacío: la presencia del
// secret es una precondición de arranque, no un check lazy.
func NewIssuer(secret string) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	return &Issuer{key: []byte(secret)}, nil
}

// Issue genera un par (token, cookieSecret) para la identidad dada.
// El cookieSecret va en la cookie HttpOnly; el token se devuelve al cliente
// para reenviarlo en el header en métodos inseguros.
func (i *Issuer) Issue(identity string) (token, cookieSecret string, err error) {
	if identity == "" {
		identity = AnonymousIdentity
	}

	var secret [32]byte
	if _, err := rand.Read(secret[:]); err != nil {
		return "", "", err
	}
	cookieSecret = hex.EncodeToString(secret[:])

	var saltRaw [8]byte
	if _, err := rand.Read(saltRaw[:]); err != nil {
		return "", "", err
	}
	salt := hex.EncodeToString(saltRaw[:])

	token = salt + "." + i.sign(salt, cookieSecret, identity)
	return token, cookieSecret, nil
}

// Verify valida un token contra el secret de la cookie y la identidad.
func (i *Issuer) Verify(token, cookieSecret, identity string) bool {
	if token == "" || cookieSecret == "" {
		return false
	}
	if identity == "" {
		identity = AnonymousIdentity
	}

	salt, mac, ok := strings.Cut(token, ".")
	if !ok || salt == "" || mac == "" {
		return false
	}

	expected := i.sign(salt, cookieSecret, identity)
	return subtle.ConstantTimeCompare([]byte(mac), []byte(expected)) == 1
}

func (i *Issuer) sign(salt, cookieSecret, identity string) string {
	h := hmac.New(sha256.New, i.key)
	h.Write([]byte(salt))
	h.Write([]byte("|"))
	h.Write([]byte(cookieSecret))
	h.Write([]byte("|"))
	h.Write([]byte(identity))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
