package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestFromReturnsScopedLogger(t *testing.T) {
	scoped := zap.NewNop().With(zap.String("request_id", "abc"))
	ctx := ToContext(context.Background(), scoped)

	if From(ctx) != scoped {
		t.Fatal("From should return the logger stored in the context")
	}
}

func TestFromFallsBackToGlobal(t *testing.T) {
	if From(context.Background()) == nil {
		t.Fatal("From without a scoped logger must fall back to the global one")
	}
	if From(nil) == nil { //nolint:staticcheck // el fallback con ctx nil es parte del contrato
		t.Fatal("From(nil) must not panic nor return nil")
	}
}

func TestLIsUsableWithoutInit(t *testing.T) {
	if L() == nil {
		t.Fatal("L must self-initialize")
	}
	if Named("test") == nil {
		t.Fatal("Named must build on the global logger")
	}
}
