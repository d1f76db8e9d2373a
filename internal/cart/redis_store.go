package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// RedisStore keeps session ledgers in Redis with a sliding TTL. All
// calls go through a circuit breaker so a Redis outage degrades fast
// instead of stalling every cart request behind dial timeouts.
type RedisStore struct {
	client  *redis.Client
	baseTTL time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewRedisStore(client *redis.Client, baseTTL time.Duration) *RedisStore {
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "cart-redis",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// A missing session is a normal outcome, not a Redis failure.
			return err == nil || errors.Is(err, ErrSessionNotFound)
		},
	})
	return &RedisStore{
		client:  client,
		baseTTL: baseTTL,
		breaker: breaker,
	}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (Ledger, error) {
	data, err := s.breaker.Execute(func() ([]byte, error) {
		b, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("redis get failed: %w", err)
		}
		return b, nil
	})
	if err != nil {
		return Ledger{}, err
	}

	var ledger Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return Ledger{}, fmt.Errorf("unmarshal ledger failed: %w", err)
	}
	return ledger, nil
}

func (s *RedisStore) Put(ctx context.Context, sessionID string, ledger Ledger) error {
	data, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("marshal ledger failed: %w", err)
	}

	// Jitter the TTL so a burst of sessions does not expire at once.
	ttl := s.baseTTL + time.Duration(rand.Intn(300))*time.Second
	_, err = s.breaker.Execute(func() ([]byte, error) {
		if err := s.client.Set(ctx, sessionKey(sessionID), data, ttl).Err(); err != nil {
			return nil, fmt.Errorf("redis set failed: %w", err)
		}
		return nil, nil
	})
	return err
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	_, err := s.breaker.Execute(func() ([]byte, error) {
		if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
			return nil, fmt.Errorf("redis del failed: %w", err)
		}
		return nil, nil
	})
	return err
}

func sessionKey(sessionID string) string {
	return "cart:session:" + sessionID
}
