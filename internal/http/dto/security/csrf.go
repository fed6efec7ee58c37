// Package security contiene los DTOs de los endpoints de seguridad.
package security

// CSRFResponse es la respuesta de GET /api/csrf-token.
// El token se devuelve en el body para que el frontend lo reenvíe en el
// header X-CSRF-Token; el secret viaja aparte en la cookie HttpOnly.
type CSRFResponse struct {
	CSRFToken string `json:"csrfToken"`
}
