package redis

import (
	"context"
	"testing"
	"time"
)

func TestIssueRateLimiter_AllowsUpToLimit(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	limiter := NewIssueRateLimiter(client, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "transfer:key-1")
		if err != nil {
			t.Fatalf("allow %d failed: %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("request %d unexpectedly limited", i+1)
		}
	}

	allowed, err := limiter.Allow(ctx, "transfer:key-1")
	if err != nil {
		t.Fatalf("allow failed: %v", err)
	}
	if allowed {
		t.Fatalf("expected fourth request to be limited")
	}
}

func TestIssueRateLimiter_SubjectsAreIndependent(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	limiter := NewIssueRateLimiter(client, 1, time.Minute)
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "transfer:key-1"); !allowed {
		t.Fatalf("first subject limited")
	}
	if allowed, _ := limiter.Allow(ctx, "transfer:key-2"); !allowed {
		t.Fatalf("second subject affected by first")
	}
}

func TestIssueRateLimiter_WindowResets(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	limiter := NewIssueRateLimiter(client, 1, time.Minute)
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "transfer:key-1"); !allowed {
		t.Fatalf("first request limited")
	}
	if allowed, _ := limiter.Allow(ctx, "transfer:key-1"); allowed {
		t.Fatalf("second request should be limited")
	}

	mr.FastForward(2 * time.Minute)

	if allowed, _ := limiter.Allow(ctx, "transfer:key-1"); !allowed {
		t.Fatalf("request after window reset limited")
	}
}

func TestIssueRateLimiter_EmptySubjectDenied(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	limiter := NewIssueRateLimiter(client, 5, time.Minute)

	if allowed, _ := limiter.Allow(context.Background(), "  "); allowed {
		t.Fatalf("blank subject must be denied")
	}
}
