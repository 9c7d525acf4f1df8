package sessionstore

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/specialistvlad/talegrid/internal/state"
)

// Memory keeps sessions in process with an idle expiry.
type Memory struct {
	cache *cache.Cache
}

var _ Repository = (*Memory)(nil)

// NewMemory returns a store whose entries expire after ttl without a Save.
// A non-positive ttl uses DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{cache: cache.New(ttl, ttl/6)}
}

func (m *Memory) Acquire(ctx context.Context, id string) (*state.SessionState, bool, error) {
	if err := checkID(id); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if x, found := m.cache.Get(id); found {
		return x.(*state.SessionState).Clone(), false, nil
	}
	st := state.New()
	if err := m.cache.Add(id, st.Clone(), cache.DefaultExpiration); err != nil {
		// Lost a race with another Acquire; use the winner's state.
		if x, found := m.cache.Get(id); found {
			return x.(*state.SessionState).Clone(), false, nil
		}
	}
	return st, true, nil
}

func (m *Memory) Save(ctx context.Context, id string, st *state.SessionState) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.cache.Set(id, st.Clone(), cache.DefaultExpiration)
	return nil
}

func (m *Memory) Release(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	m.cache.Delete(id)
	return nil
}

// Len returns the number of live sessions.
func (m *Memory) Len() int {
	return m.cache.ItemCount()
}
