package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis note store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces every key. Defaults to "notediagram:".
	Prefix string
}

// RedisStore keeps each note as a JSON string under <prefix>note:<id> and
// indexes IDs in a sorted set scored by creation time.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// maxTxRetries bounds optimistic-lock retries in Update.
const maxTxRetries = 5

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return NewRedisStoreFromClient(client, cfg.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client. The store owns it
// afterwards: Close closes the client.
func NewRedisStoreFromClient(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "notediagram:"
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) key(id string) string { return s.prefix + "note:" + id }
func (s *RedisStore) index() string        { return s.prefix + "notes" }

func (s *RedisStore) Get(ctx context.Context, id string) (*Note, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get note: %w", err)
	}
	return decodeNote(id, data)
}

func (s *RedisStore) List(ctx context.Context) ([]*Note, error) {
	ids, err := s.client.ZRevRange(ctx, s.index(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list notes: %w", err)
	}
	if len(ids) == 0 {
		return []*Note{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list notes: %w", err)
	}
	out := make([]*Note, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			// Index entry without a document: a concurrent delete.
			continue
		}
		n, err := decodeNote(ids[i], []byte(str))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	sortNewest(out)
	return out, nil
}

func (s *RedisStore) Create(ctx context.Context, n *Note) (*Note, error) {
	stored, err := prepare(n, s.now())
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("marshal note: %w", err)
	}
	ok, err := s.client.SetNX(ctx, s.key(stored.ID), data, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("redis create note: %w", err)
	}
	if !ok {
		return nil, ErrExists
	}
	score := float64(stored.CreatedAt.UnixMilli())
	if err := s.client.ZAdd(ctx, s.index(), redis.Z{Score: score, Member: stored.ID}).Err(); err != nil {
		return nil, fmt.Errorf("redis index note: %w", err)
	}
	return stored, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, p Patch) (*Note, error) {
	key := s.key(id)
	var updated *Note

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		n, err := decodeNote(id, data)
		if err != nil {
			return err
		}
		if err := n.apply(p, s.now()); err != nil {
			return err
		}
		out, err := json.Marshal(n)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err == nil {
			updated = n
		}
		return err
	}

	for range maxTxRetries {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("redis update note: %w", err)
		}
		return updated, nil
	}
	return nil, fmt.Errorf("redis update note %s: too much contention", id)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("redis delete note: %w", err)
	}
	if err := s.client.ZRem(ctx, s.index(), id).Err(); err != nil {
		return fmt.Errorf("redis unindex note: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func decodeNote(id string, data []byte) (*Note, error) {
	var n Note
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decode note %s: %w", id, err)
	}
	return &n, nil
}

var _ Store = (*RedisStore)(nil)
