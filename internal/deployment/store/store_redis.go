package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"assetgov/pkg/domain"
	"assetgov/pkg/platform/sentinel"
	"assetgov/pkg/platform/tx"
)

const keyPrefix = "assetgov:deployment:"

// RedisStore keeps records in Redis, one key per deployment. Insert uses
// SETNX so two coordinators sharing a namespace cannot both claim a key.
// Redis is not part of the SQL transaction; a journaled DEL undoes an insert
// when the surrounding operation reverts.
type RedisStore struct {
	client      *redis.Client
	coordinator domain.Address
	undoTimeout time.Duration
}

// NewRedis constructs a store scoped to one coordinator address.
func NewRedis(client *redis.Client, coordinator domain.Address) *RedisStore {
	return &RedisStore{client: client, coordinator: coordinator, undoTimeout: 5 * time.Second}
}

func (s *RedisStore) key(k string) string {
	return keyPrefix + s.coordinator.Hex() + ":" + k
}

func (s *RedisStore) Insert(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal deployment record: %w", err)
	}
	k := s.key(rec.Key)
	ok, err := s.client.SetNX(ctx, k, payload, 0).Result()
	if err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return fmt.Errorf("key %q: %w", rec.Key, sentinel.ErrAlreadyUsed)
	}
	tx.Record(ctx, func() {
		undoCtx, cancel := context.WithTimeout(context.Background(), s.undoTimeout)
		defer cancel()
		_ = s.client.Del(undoCtx, k).Err()
	})
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (Record, error) {
	payload, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, fmt.Errorf("key %q: %w", key, sentinel.ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("redis get: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return Record{}, fmt.Errorf("unmarshal deployment record: %w", err)
	}
	return rec, nil
}
