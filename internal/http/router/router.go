// Package router arma el árbol de rutas y la cadena de middlewares.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/edustack/edustack-server/internal/http/controllers/auth"
	coursesctrl "github.com/edustack/edustack-server/internal/http/controllers/courses"
	discussionsctrl "github.com/edustack/edustack-server/internal/http/controllers/discussions"
	documentsctrl "github.com/edustack/edustack-server/internal/http/controllers/documents"
	feedbackctrl "github.com/edustack/edustack-server/internal/http/controllers/feedback"
	healthctrl "github.com/edustack/edustack-server/internal/http/controllers/health"
	notificationsctrl "github.com/edustack/edustack-server/internal/http/controllers/notifications"
	pdfchatctrl "github.com/edustack/edustack-server/internal/http/controllers/pdfchat"
	roadmapsctrl "github.com/edustack/edustack-server/internal/http/controllers/roadmaps"
	securityctrl "github.com/edustack/edustack-server/internal/http/controllers/security"
	sitemapctrl "github.com/edustack/edustack-server/internal/http/controllers/sitemap"
	httperrors "github.com/edustack/edustack-server/internal/http/errors"
	mw "github.com/edustack/edustack-server/internal/http/middlewares"
	"github.com/edustack/edustack-server/internal/metrics"
	"github.com/edustack/edustack-server/internal/origin"
	"github.com/edustack/edustack-server/internal/rate"
	"github.com/edustack/edustack-server/internal/realtime"
	"github.com/edustack/edustack-server/internal/security/csrf"
	"github.com/edustack/edustack-server/internal/security/token"
)

// requestTimeout acota los requests HTTP normales. El endpoint websocket
// se monta fuera de este límite.
const requestTimeout = 30 * time.Second

// Controllers agrupa todos los controllers del API.
type Controllers struct {
	CSRF          *securityctrl.CSRFController
	Health        *healthctrl.Controller
	Auth          *authctrl.Controller
	Courses       *coursesctrl.Controller
	Roadmaps      *roadmapsctrl.Controller
	Documents     *documentsctrl.Controller
	Discussions   *discussionsctrl.Controller
	Notifications *notificationsctrl.Controller
	Feedback      *feedbackctrl.Controller
	PDFChat       *pdfchatctrl.Controller
	Sitemap       *sitemapctrl.Controller
}

// Deps son las dependencias del router.
type Deps struct {
	Controllers *Controllers
	Origins     *origin.Policy
	Issuer      *csrf.Issuer
	CSRFCookie  string
	Tokens      *token.Manager
	Metrics     *metrics.Metrics
	Hub         *realtime.Hub
	// Limiter es opcional; nil desactiva el rate limiting.
	Limiter rate.Limiter
	// UploadDir sirve los archivos subidos bajo /uploads/.
	UploadDir string
}

// New construye el handler raíz del servidor.
func New(deps Deps) http.Handler {
	table := routes(deps.Controllers)
	exempt := publicPaths(table)

	r := chi.NewRouter()

	// Cadena global. El orden importa: recover primero, logging con el
	// request ID ya presente, sesión antes del gate CSRF (la identidad
	// del token sale del contexto).
	r.Use(mw.WithRecover())
	r.Use(mw.WithRequestID())
	r.Use(mw.WithSecurityHeaders())
	r.Use(mw.WithCORS(deps.Origins))
	r.Use(mw.WithSession(deps.Tokens))
	r.Use(mw.WithLogging())
	if deps.Metrics != nil {
		r.Use(mw.WithMetrics(deps.Metrics))
	}
	if deps.Limiter != nil {
		r.Use(mw.WithRateLimit(deps.Limiter))
	}

	var onReject func()
	if deps.Metrics != nil {
		onReject = deps.Metrics.CSRFRejections.Inc
	}
	r.Use(mw.WithCSRFGate(mw.CSRFGateConfig{
		Issuer:     deps.Issuer,
		CookieName: deps.CSRFCookie,
		Exempt: func(path string) bool {
			_, ok := exempt[path]
			return ok
		},
		OnReject: onReject,
	}))

	timeout := mw.WithTimeout(requestTimeout)
	noStore := mw.WithNoStore()
	for _, rt := range table {
		wrap := []mw.Middleware{timeout}
		if rt.Auth {
			// Respuestas por usuario: nunca cacheables.
			wrap = append(wrap, mw.RequireAuth(), noStore)
		}
		r.Method(rt.Method, rt.Pattern, mw.ChainFunc(rt.Handler, wrap...))
	}

	// Websocket: long-lived, sin timeout de request.
	if deps.Hub != nil {
		r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
			deps.Hub.ServeWS(w, req, mw.GetUserID(req.Context()))
		})
	}

	// Métricas Prometheus.
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", mw.Chain(deps.Metrics.Handler(), timeout))
	}

	// Archivos subidos.
	if deps.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadDir)))
		r.Method(http.MethodGet, "/uploads/*", mw.Chain(fs, timeout))
	}

	// Catch-all estructurado, consistente con el resto del API.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	return r
}
