package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/bankcore/internal/usecase"
)

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "idempotency:",
	}
}

// Begin atomically claims the key with an in-flight marker. SETNX losing
// means another request holds or finished the key; its record is returned.
func (s *IdempotencyStore) Begin(ctx context.Context, key, payloadHash string, ttl time.Duration) (bool, *usecase.IdempotencyRecord, error) {
	fullKey := s.prefix + key

	marker, err := json.Marshal(&usecase.IdempotencyRecord{
		PayloadHash: payloadHash,
		InFlight:    true,
	})
	if err != nil {
		return false, nil, err
	}

	set, err := s.client.SetNX(ctx, fullKey, marker, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if set {
		return false, nil, nil
	}

	raw, err := s.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// The holder abandoned between our SETNX and GET. Report the key
			// as in flight so the caller retries with a fresh claim.
			return true, &usecase.IdempotencyRecord{PayloadHash: payloadHash, InFlight: true}, nil
		}
		return false, nil, err
	}

	var record usecase.IdempotencyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return false, nil, err
	}

	return true, &record, nil
}

// Finish overwrites the in-flight marker with the final record.
func (s *IdempotencyStore) Finish(ctx context.Context, key string, record *usecase.IdempotencyRecord, ttl time.Duration) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.prefix+key, raw, ttl).Err()
}

// Abandon drops a claimed key so the caller can retry the operation.
func (s *IdempotencyStore) Abandon(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
