package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// issueLimitScript counts issues per subject inside a fixed window. The
// INCR and PEXPIRE run atomically so concurrent issues cannot each see an
// uninitialized counter.
var issueLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// IssueRateLimiter implements usecase.IssueRateLimiter with a Redis counter
// per subject.
type IssueRateLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// NewIssueRateLimiter creates a new IssueRateLimiter.
func NewIssueRateLimiter(client *redis.Client, limit int, window time.Duration) *IssueRateLimiter {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Minute
	}

	return &IssueRateLimiter{
		client: client,
		prefix: "challenge_issue:",
		limit:  int64(limit),
		window: window,
	}
}

// Allow reports whether the subject may be issued another challenge.
func (l *IssueRateLimiter) Allow(ctx context.Context, subject string) (bool, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return false, nil
	}

	count, err := issueLimitScript.Run(ctx, l.client, []string{l.prefix + subject}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}

	return count <= l.limit, nil
}
