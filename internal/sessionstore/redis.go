package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/state"
)

const redisKeyPrefix = "talegrid:session:"

// Redis shares sessions between server instances.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ Repository = (*Redis)(nil)

// NewRedis connects to the server at url (redis://...). A bare host:port is
// accepted as well.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	if url == "" {
		return nil, errors.New("redis url is required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to parse Redis URL, using it as an address.", "error", err)
		opt = &redis.Options{Addr: url}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &Redis{rdb: rdb, ttl: ttl}, nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

func (r *Redis) Acquire(ctx context.Context, id string) (*state.SessionState, bool, error) {
	if err := checkID(id); err != nil {
		return nil, false, err
	}
	raw, err := r.rdb.Get(ctx, redisKey(id)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		st := state.New()
		data, err := encodeState(st)
		if err != nil {
			return nil, false, err
		}
		created, err := r.rdb.SetNX(ctx, redisKey(id), data, r.ttl).Result()
		if err != nil {
			return nil, false, fmt.Errorf("create session %s: %w", id, err)
		}
		if !created {
			return r.load(ctx, id)
		}
		return st, true, nil
	case err != nil:
		return nil, false, fmt.Errorf("load session %s: %w", id, err)
	}
	st, err := decodeState(raw)
	if err != nil {
		return nil, false, err
	}
	return st, false, nil
}

func (r *Redis) load(ctx context.Context, id string) (*state.SessionState, bool, error) {
	raw, err := r.rdb.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		return nil, false, fmt.Errorf("load session %s: %w", id, err)
	}
	st, err := decodeState(raw)
	return st, false, err
}

func (r *Redis) Save(ctx context.Context, id string, st *state.SessionState) error {
	if err := checkID(id); err != nil {
		return err
	}
	data, err := encodeState(st)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, redisKey(id), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

func (r *Redis) Release(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := r.rdb.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("release session %s: %w", id, err)
	}
	return nil
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func encodeState(st *state.SessionState) ([]byte, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode session state: %w", err)
	}
	return data, nil
}

func decodeState(raw []byte) (*state.SessionState, error) {
	var st state.SessionState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	return &st, nil
}
