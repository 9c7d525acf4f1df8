package catalog

import (
	"context"
	"strings"
	"sync"
)

// Memory is an in-process catalog built from a Seed.
type Memory struct {
	mu      sync.RWMutex
	races   []RaceRecord
	classes []ClassRecord
}

// NewMemory builds a catalog holding the seed's rows in order.
func NewMemory(seed Seed) *Memory {
	m := &Memory{}
	m.races = append(m.races, seed.Races...)
	m.classes = append(m.classes, seed.Classes...)
	return m
}

func (m *Memory) ListRaces(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, len(m.races))
	for i, r := range m.races {
		out[i] = r.Entry
	}
	return out, nil
}

func (m *Memory) ListClasses(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, len(m.classes))
	for i, c := range m.classes {
		out[i] = c.Entry
	}
	return out, nil
}

func (m *Memory) RaceStats(ctx context.Context, race string) (Stats, error) {
	r, err := m.race(ctx, race)
	return r.Stats, err
}

func (m *Memory) ClassStats(ctx context.Context, class string) (Stats, error) {
	c, err := m.class(ctx, class)
	return c.Stats, err
}

func (m *Memory) TotalStats(ctx context.Context, race, class string) (Stats, error) {
	return Total(ctx, m, race, class)
}

func (m *Memory) StartingLocation(ctx context.Context, race string) (Location, error) {
	r, err := m.race(ctx, race)
	return r.Location, err
}

func (m *Memory) StartingItems(ctx context.Context, class string) (Items, error) {
	c, err := m.class(ctx, class)
	return c.Items, err
}

func (m *Memory) race(ctx context.Context, name string) (RaceRecord, error) {
	if err := ctx.Err(); err != nil {
		return RaceRecord{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.races {
		if strings.EqualFold(r.Name, name) {
			return r, nil
		}
	}
	return RaceRecord{}, notFound("race", name)
}

func (m *Memory) class(ctx context.Context, name string) (ClassRecord, error) {
	if err := ctx.Err(); err != nil {
		return ClassRecord{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.classes {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return ClassRecord{}, notFound("class", name)
}
