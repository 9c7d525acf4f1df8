// Package dice exposes dice-roll hooks for handlers. It carries no game
// mechanics; callers decide what a roll means.
package dice

import (
	"math/rand/v2"
	"sync"
)

// Roller rolls a die with the given number of sides and returns 1..sides.
type Roller interface {
	Roll(sides int) int
}

// D20 rolls a twenty-sided die.
func D20(r Roller) int {
	return r.Roll(20)
}

// Random rolls with math/rand/v2. The zero value uses the global source.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a reproducible roller.
func NewSeeded(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *Random) Roll(sides int) int {
	if sides < 1 {
		return 0
	}
	if r.rng == nil {
		return rand.IntN(sides) + 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(sides) + 1
}

// Fixed replays values in order and then repeats the last one.
type Fixed struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewFixed returns a roller that yields values in sequence.
func NewFixed(values ...int) *Fixed {
	return &Fixed{values: values}
}

func (f *Fixed) Roll(int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.values) == 0 {
		return 1
	}
	v := f.values[min(f.next, len(f.values)-1)]
	f.next++
	return v
}
