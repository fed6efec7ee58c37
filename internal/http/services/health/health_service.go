// Package health contiene el service del health check.
package health

import (
	"context"
	"time"

	"github.com/edustack/edustack-server/internal/config"
	dto "github.com/edustack/edustack-server/internal/http/dto/health"
	"github.com/edustack/edustack-server/internal/observability/logger"
	"github.com/edustack/edustack-server/internal/origin"
)

// UserCounter es lo único que el health check necesita de la base:
// una query real que prueba la conexión de punta a punta.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Service arma el reporte de salud del servidor.
type Service interface {
	Check(ctx context.Context) *dto.Response
}

// Deps son las dependencias del service.
type Deps struct {
	Users   UserCounter
	Origins *origin.Policy
	Prod    bool
}

type service struct {
	deps Deps
}

// NewService crea el service de health.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

// Check ejecuta la query de conteo contra la base. Si falla, el reporte
// sale degradado; el detalle del error solo se expone fuera de prod.
func (s *service) Check(ctx context.Context) *dto.Response {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("health"),
	)

	resp := &dto.Response{
		Status:         "ok",
		Env:            config.EnvPresence(),
		AllowedOrigins: s.deps.Origins.Allowed(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}

	count, err := s.deps.Users.Count(ctx)
	if err != nil {
		log.Error("health check database query failed", logger.Err(err))
		resp.Status = "error"
		resp.Database = "Disconnected"
		if !s.deps.Prod {
			// El detalle (mensaje/stack del driver) jamás sale en prod.
			resp.Detail = err.Error()
		}
		return resp
	}

	resp.Database = "Connected"
	resp.UserCount = count
	return resp
}
