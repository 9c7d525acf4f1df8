package lore

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process library ranking passages by how many query terms
// they share.
type Memory struct {
	mu       sync.RWMutex
	passages []indexed
}

type indexed struct {
	Passage
	terms map[string]struct{}
}

var _ Library = (*Memory)(nil)

// NewMemory builds a library holding passages in order.
func NewMemory(passages []Passage) *Memory {
	m := &Memory{}
	for _, p := range passages {
		idx := indexed{Passage: p, terms: make(map[string]struct{})}
		for _, t := range Terms(p.Title + " " + p.Text) {
			idx.terms[t] = struct{}{}
		}
		m.passages = append(m.passages, idx)
	}
	return m
}

func (m *Memory) Search(ctx context.Context, kind Kind, query string, k int) ([]Passage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = DefaultK
	}
	terms := Terms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	type hit struct {
		p     Passage
		score int
	}
	m.mu.RLock()
	var hits []hit
	for _, idx := range m.passages {
		if idx.Kind != kind {
			continue
		}
		score := 0
		for _, t := range terms {
			if _, ok := idx.terms[t]; ok {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, hit{p: idx.Passage, score: score})
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > k {
		hits = hits[:k]
	}
	out := make([]Passage, len(hits))
	for i, h := range hits {
		out[i] = h.p
	}
	return out, nil
}
