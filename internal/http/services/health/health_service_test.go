package health

import (
	"context"
	"errors"
	"testing"

	"github.com/edustack/edustack-server/internal/origin"
)

type fakeCounter struct {
	count int64
	err   error
}

func (f fakeCounter) Count(ctx context.Context) (int64, error) {
	return f.count, f.err
}

func TestCheckHealthy(t *testing.T) {
	s := NewService(Deps{
		Users:   fakeCounter{count: 42},
		Origins: origin.New(""),
	})

	resp := s.Check(context.Background())
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.Database != "Connected" {
		t.Errorf("database = %q, want Connected", resp.Database)
	}
	if resp.UserCount != 42 {
		t.Errorf("userCount = %d, want 42", resp.UserCount)
	}
	if len(resp.AllowedOrigins) != 2 {
		t.Errorf("allowedOrigins = %v", resp.AllowedOrigins)
	}
	if resp.Env == nil {
		t.Error("env presence map should be present")
	}
}

func TestCheckDatabaseDownShowsDetailInDev(t *testing.T) {
	s := NewService(Deps{
		Users:   fakeCounter{err: errors.New("connection refused")},
		Origins: origin.New(""),
		Prod:    false,
	})

	resp := s.Check(context.Background())
	if resp.Status != "error" {
		t.Errorf("status = %q, want error", resp.Status)
	}
	if resp.Database != "Disconnected" {
		t.Errorf("database = %q, want Disconnected", resp.Database)
	}
	if resp.Detail == "" {
		t.Error("dev mode should expose the error detail")
	}
}

func TestCheckDatabaseDownHidesDetailInProd(t *testing.T) {
	s := NewService(Deps{
		Users:   fakeCounter{err: errors.New("connection refused: secret-host:5432")},
		Origins: origin.New(""),
		Prod:    true,
	})

	resp := s.Check(context.Background())
	if resp.Detail != "" {
		t.Fatalf("prod must never expose error detail, got %q", resp.Detail)
	}
}
