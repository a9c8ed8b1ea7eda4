package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const presenceKeyPrefix = "presence:"

// PresenceStore mirrors registry state into Redis so operators and other
// instances can see which users are connected where. Best-effort only: the
// registry, not this store, decides where pushes go.
type PresenceStore struct {
	rdb        *redis.Client
	instanceID string
	ttl        time.Duration
}

func NewPresenceStore(rdb *redis.Client, instanceID string, ttl time.Duration) *PresenceStore {
	return &PresenceStore{rdb: rdb, instanceID: instanceID, ttl: ttl}
}

// Set records that userID is connected to this instance.
func (s *PresenceStore) Set(ctx context.Context, userID string) error {
	if err := s.rdb.Set(ctx, presenceKey(userID), s.instanceID, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set presence: %w", err)
	}
	return nil
}

// Delete clears the presence entry for userID, but only if it still points at
// this instance. A user reconnecting to another instance keeps its new entry.
func (s *PresenceStore) Delete(ctx context.Context, userID string) error {
	current, err := s.rdb.Get(ctx, presenceKey(userID)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read presence: %w", err)
	}
	if current != s.instanceID {
		return nil
	}

	if err := s.rdb.Del(ctx, presenceKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete presence: %w", err)
	}
	return nil
}

// Instance returns the instance id userID is connected to, or "" if absent.
func (s *PresenceStore) Instance(ctx context.Context, userID string) (string, error) {
	instance, err := s.rdb.Get(ctx, presenceKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read presence: %w", err)
	}
	return instance, nil
}

func presenceKey(userID string) string {
	return presenceKeyPrefix + userID
}
