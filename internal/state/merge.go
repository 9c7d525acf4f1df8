// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package state

import (
	"fmt"
	"maps"
)

// InvariantViolation is returned when an update would break a state invariant.
// It always points at a node bug or corrupted data and is never retried.
type InvariantViolation struct {
	Field  string
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation on %s: %s", e.Field, e.Reason)
}

// MergeOption tunes a single Merge call.
type MergeOption func(*mergeOptions)

type mergeOptions struct {
	allowCommit bool
	allowReset  bool
}

// AllowCommit marks the merge as coming from a designated commit step. Only
// commit steps may set race, profession or the non-HP status attributes.
func AllowCommit() MergeOption {
	return func(o *mergeOptions) { o.allowCommit = true }
}

// AllowReset marks the merge as coming from a designated reset step. Only
// reset steps may set a positive QuestionTime back to zero.
func AllowReset() MergeOption {
	return func(o *mergeOptions) { o.allowReset = true }
}

// Merge folds u into st. The merge is atomic: when an invariant would be
// violated st is left untouched and an *InvariantViolation is returned.
func Merge(st *SessionState, u Update, opts ...MergeOption) error {
	var o mergeOptions
	for _, opt := range opts {
		opt(&o)
	}

	if err := check(st, u, o); err != nil {
		return err
	}

	if u.UserMessages != nil {
		st.UserMessages = append(st.UserMessages, u.UserMessages...)
	}
	if u.SystemMessages != nil {
		st.SystemMessages = append(st.SystemMessages, u.SystemMessages...)
	}
	if u.GameContext != nil {
		gc := append(st.GameContext, u.GameContext...)
		if n := len(gc); n > GameContextCap {
			gc = append([]string(nil), gc[n-GameContextCap:]...)
		}
		st.GameContext = gc
	}
	if u.Character != nil {
		mergeCharacter(&st.Character, u.Character)
	}
	if u.Phase != nil {
		st.Phase = *u.Phase
	}
	if u.StorySummary != nil {
		st.StorySummary = *u.StorySummary
	}
	if u.QuestionTime != nil {
		st.QuestionTime = *u.QuestionTime
	}
	if u.CacheBox != nil {
		st.CacheBox = maps.Clone(u.CacheBox)
	}
	return nil
}

func check(st *SessionState, u Update, o mergeOptions) error {
	if u.QuestionTime != nil {
		next := *u.QuestionTime
		if next < 0 {
			return &InvariantViolation{Field: "question_time", Reason: fmt.Sprintf("would become negative (%d)", next)}
		}
		if next < st.QuestionTime && next != 0 {
			return &InvariantViolation{Field: "question_time", Reason: fmt.Sprintf("may only be reset to 0, got %d (was %d)", next, st.QuestionTime)}
		}
		if next == 0 && st.QuestionTime > 0 && !o.allowReset {
			return &InvariantViolation{Field: "question_time", Reason: "may only be reset by a reset step"}
		}
	}
	if u.Phase != nil && !u.Phase.Valid() {
		return &InvariantViolation{Field: "game_phase", Reason: fmt.Sprintf("unknown phase %q", *u.Phase)}
	}
	if u.Character != nil {
		return checkCharacter(&st.Character, u.Character, o)
	}
	return nil
}

func checkCharacter(cur *CharacterState, p *CharacterPatch, o mergeOptions) error {
	if err := checkCommitted("character_state.race", cur.Race, p.Race, o); err != nil {
		return err
	}
	if err := checkCommitted("character_state.profession", cur.Profession, p.Profession, o); err != nil {
		return err
	}
	if p.Status == nil {
		return nil
	}

	next := *p.Status
	for name, v := range statusFields(next) {
		if v < 0 {
			return &InvariantViolation{Field: "character_state.status." + name, Reason: fmt.Sprintf("would become negative (%d)", v)}
		}
	}
	if !o.allowCommit {
		prev := statusFields(cur.Status)
		for name, v := range statusFields(next) {
			if name != "current_hp" && prev[name] != v {
				return &InvariantViolation{Field: "character_state.status." + name, Reason: "may only change during character creation"}
			}
		}
		return nil
	}
	if cur.Status.IsZero() && next.CurrentHP != next.BaseHP {
		return &InvariantViolation{Field: "character_state.status.current_hp", Reason: fmt.Sprintf("must start at base_hp (%d), got %d", next.BaseHP, next.CurrentHP)}
	}
	return nil
}

// checkCommitted guards race and profession: they are set by commit steps only
// and a committed value is never replaced by a different one implicitly.
func checkCommitted(field, cur string, next *string, o mergeOptions) error {
	if next == nil || *next == cur {
		return nil
	}
	if o.allowCommit {
		return nil
	}
	if cur != "" && *next != "" {
		return &InvariantViolation{Field: field, Reason: fmt.Sprintf("already committed as %q, refusing %q", cur, *next)}
	}
	return &InvariantViolation{Field: field, Reason: "may only be changed by a commit step"}
}

func statusFields(s Status) map[string]int {
	return map[string]int{
		"strength":     s.Strength,
		"agility":      s.Agility,
		"mentality":    s.Mentality,
		"luck":         s.Luck,
		"intelligence": s.Intelligence,
		"base_hp":      s.BaseHP,
		"current_hp":   s.CurrentHP,
	}
}

func mergeCharacter(c *CharacterState, p *CharacterPatch) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Race != nil {
		c.Race = *p.Race
	}
	if p.Profession != nil {
		c.Profession = *p.Profession
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.LocationType != nil {
		c.LocationType = *p.LocationType
	}
	if p.Location != nil {
		c.Location = *p.Location
	}
	if p.AttackItem != nil {
		c.AttackItem = *p.AttackItem
	}
	if p.DefenseItem != nil {
		c.DefenseItem = *p.DefenseItem
	}
}
