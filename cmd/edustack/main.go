// edustack es el servidor HTTP de la plataforma.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/edustack/edustack-server/internal/app"
	"github.com/edustack/edustack-server/internal/config"
	"github.com/edustack/edustack-server/internal/observability/logger"
)

var version = "dev"

func main() {
	// .env es opcional; en prod las vars vienen del entorno real.
	_ = godotenv.Load()

	var (
		cfgPath  string
		logLevel string
	)

	root := &cobra.Command{
		Use:           "edustack",
		Short:         "Servidor de la plataforma educativa",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "ruta del YAML de configuración")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "nivel de log (debug|info|warn|error)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Arranca el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfgPath, logLevel)
		},
	}

	envcheck := &cobra.Command{
		Use:   "envcheck",
		Short: "Reporta qué variables de entorno esperadas están presentes",
		Run: func(cmd *cobra.Command, args []string) {
			for name, present := range config.EnvPresence() {
				fmt.Printf("%-25s %v\n", name, present)
			}
		},
	}

	root.AddCommand(serve, envcheck)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runServe(cfgPath, logLevel string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	env := "dev"
	if cfg.IsProd() {
		env = "prod"
	}
	logger.Init(logger.Config{
		Env:         env,
		Level:       logLevel,
		ServiceName: "edustack-server",
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()

	log := logger.Named("main")

	// Los secrets se verifican ANTES de abrir el listener: un deploy sin
	// CSRF_SECRET o JWT_SECRET muere acá, no en el primer request.
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", logger.Err(err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Error("startup failed", logger.Err(err))
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		// WriteTimeout holgado: las subidas de documentos y el proxy LLM
		// pueden tardar; el timeout por request acota el resto.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening",
			logger.String("addr", cfg.Server.Addr),
			logger.String("env", env),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", logger.Err(err))
		return err
	}

	log.Info("server stopped")
	return nil
}
