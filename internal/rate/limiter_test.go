package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterAllowsUpToMax(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "ip-1")
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	res, err := l.Allow(ctx, "ip-1")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if res.Allowed {
		t.Fatal("request over the limit should be denied")
	}
	if res.RetryAfter <= 0 {
		t.Error("denied result should carry a retry-after hint")
	}
}

func TestMemoryLimiterIsolatesKeys(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(1, time.Minute)

	if res, _ := l.Allow(ctx, "ip-a"); !res.Allowed {
		t.Fatal("first request for ip-a should pass")
	}
	if res, _ := l.Allow(ctx, "ip-b"); !res.Allowed {
		t.Fatal("ip-b has its own window")
	}
	if res, _ := l.Allow(ctx, "ip-a"); res.Allowed {
		t.Fatal("second request for ip-a should be denied")
	}
}

func TestMemoryLimiterWindowReset(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(1, 50*time.Millisecond)

	if res, _ := l.Allow(ctx, "ip"); !res.Allowed {
		t.Fatal("first request should pass")
	}

	time.Sleep(120 * time.Millisecond)
	if res, _ := l.Allow(ctx, "ip"); !res.Allowed {
		t.Fatal("window elapsed, request should pass again")
	}
}
