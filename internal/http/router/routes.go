package router

import "net/http"

// Route describe un endpoint con su metadata de admisión.
//
// Public marca los endpoints alcanzables SIN token CSRF: son los flujos de
// auth donde el cliente todavía no tiene token que mandar (login, signup,
// OTP, reset) y los GET de bootstrap (/api/csrf-token, /api/health). La
// lista de exenciones del gate CSRF se DERIVA de esta tabla; no existe una
// segunda lista que mantener a mano.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc

	// Public exime la ruta del gate CSRF.
	Public bool
	// Auth exige sesión válida (401 si no hay).
	Auth bool
}

// routes arma la tabla completa del API.
func routes(c *Controllers) []Route {
	return []Route{
		// Bootstrap y salud
		{Method: http.MethodGet, Pattern: "/api/csrf-token", Handler: c.CSRF.GetToken, Public: true},
		{Method: http.MethodGet, Pattern: "/api/health", Handler: c.Health.Check, Public: true},

		// Auth: flujos públicos (sin token CSRF todavía)
		{Method: http.MethodPost, Pattern: "/api/auth/signup", Handler: c.Auth.Signup, Public: true},
		{Method: http.MethodPost, Pattern: "/api/auth/login", Handler: c.Auth.Login, Public: true},
		{Method: http.MethodPost, Pattern: "/api/auth/otp/send", Handler: c.Auth.SendOTP, Public: true},
		{Method: http.MethodPost, Pattern: "/api/auth/otp/verify", Handler: c.Auth.VerifyOTP, Public: true},
		{Method: http.MethodPost, Pattern: "/api/auth/password/forgot", Handler: c.Auth.ForgotPassword, Public: true},
		{Method: http.MethodPost, Pattern: "/api/auth/password/reset", Handler: c.Auth.ResetPassword, Public: true},
		// El callback llega por redirect desde Google: cross-site por
		// definición, el state en cache cumple el rol anti-CSRF.
		{Method: http.MethodGet, Pattern: "/api/auth/oauth/google", Handler: c.Auth.GoogleStart, Public: true},
		{Method: http.MethodGet, Pattern: "/api/auth/oauth/google/callback", Handler: c.Auth.GoogleCallback, Public: true},

		// Auth: sesión activa
		{Method: http.MethodPost, Pattern: "/api/auth/logout", Handler: c.Auth.Logout},
		{Method: http.MethodGet, Pattern: "/api/auth/me", Handler: c.Auth.Me, Auth: true},

		// Cursos
		{Method: http.MethodGet, Pattern: "/api/courses", Handler: c.Courses.List},
		{Method: http.MethodGet, Pattern: "/api/courses/{id}", Handler: c.Courses.Get},
		{Method: http.MethodPost, Pattern: "/api/courses", Handler: c.Courses.Create, Auth: true},
		{Method: http.MethodPut, Pattern: "/api/courses/{id}", Handler: c.Courses.Update, Auth: true},
		{Method: http.MethodDelete, Pattern: "/api/courses/{id}", Handler: c.Courses.Delete, Auth: true},

		// Roadmaps
		{Method: http.MethodGet, Pattern: "/api/roadmaps", Handler: c.Roadmaps.List},
		{Method: http.MethodGet, Pattern: "/api/roadmaps/{idOrSlug}", Handler: c.Roadmaps.Get},
		{Method: http.MethodPost, Pattern: "/api/roadmaps", Handler: c.Roadmaps.Create, Auth: true},
		{Method: http.MethodDelete, Pattern: "/api/roadmaps/{id}", Handler: c.Roadmaps.Delete, Auth: true},

		// Documentos
		{Method: http.MethodGet, Pattern: "/api/pdfs", Handler: c.Documents.ListPDFs},
		{Method: http.MethodGet, Pattern: "/api/ebooks", Handler: c.Documents.ListEbooks},
		{Method: http.MethodGet, Pattern: "/api/images", Handler: c.Documents.ListImages},
		{Method: http.MethodGet, Pattern: "/api/documents/{id}", Handler: c.Documents.Get},
		{Method: http.MethodPost, Pattern: "/api/upload", Handler: c.Documents.Upload, Auth: true},
		{Method: http.MethodDelete, Pattern: "/api/documents/{id}", Handler: c.Documents.Delete, Auth: true},

		// Discusiones
		{Method: http.MethodGet, Pattern: "/api/discussions", Handler: c.Discussions.List},
		{Method: http.MethodGet, Pattern: "/api/discussions/{id}", Handler: c.Discussions.Get},
		{Method: http.MethodGet, Pattern: "/api/discussions/{id}/replies", Handler: c.Discussions.Replies},
		{Method: http.MethodPost, Pattern: "/api/discussions", Handler: c.Discussions.Create, Auth: true},
		{Method: http.MethodPost, Pattern: "/api/discussions/{id}/replies", Handler: c.Discussions.Reply, Auth: true},

		// Notificaciones
		{Method: http.MethodGet, Pattern: "/api/notifications", Handler: c.Notifications.List, Auth: true},
		{Method: http.MethodGet, Pattern: "/api/notifications/unread-count", Handler: c.Notifications.UnreadCount, Auth: true},
		{Method: http.MethodPost, Pattern: "/api/notifications/{id}/read", Handler: c.Notifications.MarkRead, Auth: true},
		{Method: http.MethodPost, Pattern: "/api/notifications/read-all", Handler: c.Notifications.MarkAllRead, Auth: true},

		// Feedback
		{Method: http.MethodPost, Pattern: "/api/feedback", Handler: c.Feedback.Submit},
		{Method: http.MethodGet, Pattern: "/api/feedback", Handler: c.Feedback.List, Auth: true},

		// PDF chat
		{Method: http.MethodPost, Pattern: "/api/pdf-chat", Handler: c.PDFChat.Ask, Auth: true},

		// SEO
		{Method: http.MethodGet, Pattern: "/sitemap.xml", Handler: c.Sitemap.Serve, Public: true},
	}
}

// publicPaths deriva el set de paths exentos del gate CSRF a partir de la
// tabla. Solo entran patterns sin parámetros: la exención es por path exacto.
func publicPaths(rs []Route) map[string]struct{} {
	out := make(map[string]struct{})
	for _, rt := range rs {
		if rt.Public && !hasParams(rt.Pattern) {
			out[rt.Pattern] = struct{}{}
		}
	}
	return out
}

func hasParams(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '{' || pattern[i] == '*' {
			return true
		}
	}
	return false
}
