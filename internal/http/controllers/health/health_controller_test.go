package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edustack/edustack-server/internal/origin"

	svc "github.com/edustack/edustack-server/internal/http/services/health"
)

type fakeCounter struct {
	count int64
	err   error
}

func (f fakeCounter) Count(ctx context.Context) (int64, error) {
	return f.count, f.err
}

func check(t *testing.T, counter fakeCounter) *httptest.ResponseRecorder {
	t.Helper()
	c := NewController(svc.NewService(svc.Deps{
		Users:   counter,
		Origins: origin.New(""),
	}))
	rec := httptest.NewRecorder()
	c.Check(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	return rec
}

func TestCheckHealthyReturns200(t *testing.T) {
	rec := check(t, fakeCounter{count: 7})

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "Connected", body["database"])
	// userCount es numérico en el JSON, no string.
	require.Equal(t, float64(7), body["userCount"])
	require.NotEmpty(t, body["timestamp"])
}

func TestCheckDegradedReturns503(t *testing.T) {
	rec := check(t, fakeCounter{err: errors.New("dial tcp: refused")})

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "error", body["status"])
	require.Equal(t, "Disconnected", body["database"])
}
