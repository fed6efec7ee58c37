// Package app arma el grafo de dependencias del servidor: storage, cache,
// seguridad, realtime, services, controllers y router.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/edustack/edustack-server/internal/cache"
	"github.com/edustack/edustack-server/internal/config"
	"github.com/edustack/edustack-server/internal/email"
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
	"github.com/edustack/edustack-server/internal/http/router"
	authsvc "github.com/edustack/edustack-server/internal/http/services/auth"
	coursessvc "github.com/edustack/edustack-server/internal/http/services/courses"
	discussionssvc "github.com/edustack/edustack-server/internal/http/services/discussions"
	documentssvc "github.com/edustack/edustack-server/internal/http/services/documents"
	feedbacksvc "github.com/edustack/edustack-server/internal/http/services/feedback"
	healthsvc "github.com/edustack/edustack-server/internal/http/services/health"
	notificationssvc "github.com/edustack/edustack-server/internal/http/services/notifications"
	pdfchatsvc "github.com/edustack/edustack-server/internal/http/services/pdfchat"
	roadmapssvc "github.com/edustack/edustack-server/internal/http/services/roadmaps"
	securitysvc "github.com/edustack/edustack-server/internal/http/services/security"
	sitemapsvc "github.com/edustack/edustack-server/internal/http/services/sitemap"
	"github.com/edustack/edustack-server/internal/metrics"
	"github.com/edustack/edustack-server/internal/oauth/google"
	"github.com/edustack/edustack-server/internal/observability/logger"
	"github.com/edustack/edustack-server/internal/origin"
	"github.com/edustack/edustack-server/internal/rate"
	"github.com/edustack/edustack-server/internal/realtime"
	"github.com/edustack/edustack-server/internal/security/csrf"
	"github.com/edustack/edustack-server/internal/security/token"
	"github.com/edustack/edustack-server/internal/store"
)

// App contiene las piezas vivas del servidor.
type App struct {
	Cfg     *config.Config
	Store   *store.Store
	Cache   cache.Client
	Hub     *realtime.Hub
	Metrics *metrics.Metrics
	Handler http.Handler
}

// New construye la aplicación completa. Los secrets ya fueron validados
// por config.Validate() antes de llegar acá.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Named("app")

	origins := origin.New(cfg.Server.FrontendOrigin)
	log.Info("origin policy loaded", logger.Any("allowed", origins.Allowed()))

	issuer, err := csrf.NewIssuer(cfg.CSRF.Secret)
	if err != nil {
		return nil, fmt.Errorf("app: csrf issuer: %w", err)
	}
	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.AccessTTL())

	// Postgres es requisito duro: sin base no arrancamos.
	lifetime, _ := time.ParseDuration(cfg.Storage.Postgres.ConnMaxLifetime)
	st, err := store.New(ctx, store.Options{
		DSN:             cfg.Storage.DSN,
		MaxConns:        cfg.Storage.Postgres.MaxConns,
		ConnMaxLifetime: lifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("app: store: %w", err)
	}

	// Redis caído degrada a cache en memoria, no tumba el arranque.
	cacheClient, err := cache.New(cache.Config{
		Driver: cfg.Cache.Kind,
		Addr:   cfg.Cache.Redis.Addr,
		DB:     cfg.Cache.Redis.DB,
		Prefix: cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		log.Warn("redis unavailable, falling back to memory cache", logger.Err(err))
		cacheClient, _ = cache.New(cache.Config{Driver: "memory", Prefix: cfg.Cache.Redis.Prefix})
	}

	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		if rc := cache.Raw(cacheClient); rc != nil {
			limiter = rate.NewRedisLimiter(rc, cfg.Cache.Redis.Prefix+"rl:", cfg.Rate.MaxRequests, cfg.RateWindow())
		} else {
			limiter = rate.NewMemoryLimiter(cfg.Rate.MaxRequests, cfg.RateWindow())
		}
	}

	var sender email.Sender = email.NopSender{}
	if cfg.SMTP.Host != "" {
		sender = email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
	}

	googleClient := google.New(
		cfg.OAuth.Google.ClientID,
		cfg.OAuth.Google.ClientSecret,
		cfg.OAuth.Google.RedirectURL,
	)

	m := metrics.New()

	hub := realtime.NewHub(ctx, origins)
	hub.OnClientCount(func(n int) { m.WSClients.Set(float64(n)) })
	go hub.Start()

	frontendURL := cfg.Server.FrontendOrigin
	if frontendURL == "" {
		frontendURL = origin.DevFrontend
	}

	// Services
	csrfService := securitysvc.NewCSRFService(securitysvc.CSRFDeps{
		Issuer:     issuer,
		CookieName: cfg.CSRF.CookieName,
		TTLSeconds: cfg.CSRF.TTLSeconds,
		Prod:       cfg.IsProd(),
	})
	healthService := healthsvc.NewService(healthsvc.Deps{
		Users:   st.Users,
		Origins: origins,
		Prod:    cfg.IsProd(),
	})
	authService := authsvc.NewService(authsvc.Deps{
		Users:       st.Users,
		Tokens:      tokens,
		Cache:       cacheClient,
		Email:       sender,
		Google:      googleClient,
		FrontendURL: frontendURL,
	})
	coursesService := coursessvc.NewService(st.Courses)
	roadmapsService := roadmapssvc.NewService(st.Roadmaps)
	documentsService, err := documentssvc.NewService(documentssvc.Deps{
		Repo:      st.Documents,
		UploadDir: cfg.Storage.UploadDir,
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	notificationsService := notificationssvc.NewService(notificationssvc.Deps{
		Repo:      st.Notifications,
		Broadcast: hub,
	})
	discussionsService := discussionssvc.NewService(discussionssvc.Deps{
		Repo:      st.Discussions,
		Notifier:  notificationsService,
		Broadcast: hub,
	})
	feedbackService := feedbacksvc.NewService(st.Feedback)
	pdfChatService := pdfchatsvc.NewService(pdfchatsvc.Deps{
		Documents: st.Documents,
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
	})
	sitemapService := sitemapsvc.NewService(sitemapsvc.Deps{
		Courses:  st.Courses,
		Roadmaps: st.Roadmaps,
		BaseURL:  frontendURL,
	})

	controllers := &router.Controllers{
		CSRF:   securityctrl.NewCSRFController(csrfService),
		Health: healthctrl.NewController(healthService),
		Auth: authctrl.NewController(authctrl.Config{
			Service:     authService,
			Prod:        cfg.IsProd(),
			TTLSeconds:  int(cfg.AccessTTL().Seconds()),
			FrontendURL: frontendURL,
		}),
		Courses:       coursesctrl.NewController(coursesService),
		Roadmaps:      roadmapsctrl.NewController(roadmapsService),
		Documents:     documentsctrl.NewController(documentsService),
		Discussions:   discussionsctrl.NewController(discussionsService),
		Notifications: notificationsctrl.NewController(notificationsService),
		Feedback:      feedbackctrl.NewController(feedbackService),
		PDFChat:       pdfchatctrl.NewController(pdfChatService),
		Sitemap:       sitemapctrl.NewController(sitemapService),
	}

	handler := router.New(router.Deps{
		Controllers: controllers,
		Origins:     origins,
		Issuer:      issuer,
		CSRFCookie:  cfg.CSRF.CookieName,
		Tokens:      tokens,
		Metrics:     m,
		Hub:         hub,
		Limiter:     limiter,
		UploadDir:   cfg.Storage.UploadDir,
	})

	return &App{
		Cfg:     cfg,
		Store:   st,
		Cache:   cacheClient,
		Hub:     hub,
		Metrics: m,
		Handler: handler,
	}, nil
}

// Close libera los recursos en orden inverso al arranque.
func (a *App) Close() {
	if a.Hub != nil {
		a.Hub.Stop()
	}
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if a.Store != nil {
		a.Store.Close()
	}
}
