// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package state

import (
	"fmt"
	"maps"
	"slices"
)

// GameContextCap is the number of most recent checkpoints GameContext keeps.
const GameContextCap = 5

// GamePhase is a coarse stage of the adventure.
type GamePhase string

const (
	PhaseIntroduction GamePhase = "introduction"
	PhaseExploration  GamePhase = "exploration"
	PhaseInteraction  GamePhase = "interaction"
	PhaseManagement   GamePhase = "management"
	PhaseChallenge    GamePhase = "challenge"
	PhaseSearch       GamePhase = "search"
	PhaseCombat       GamePhase = "combat"
	PhaseGeneral      GamePhase = "general"
	PhaseUnknown      GamePhase = "unknown"
)

var phaseTitles = map[GamePhase]string{
	PhaseIntroduction: "Beginning",
	PhaseExploration:  "Exploring the area",
	PhaseInteraction:  "Talking with the locals",
	PhaseManagement:   "Checking game information",
	PhaseChallenge:    "Dungeon challenge",
	PhaseSearch:       "Searching event rooms",
	PhaseCombat:       "Fighting monsters",
	PhaseGeneral:      "General questions",
	PhaseUnknown:      "Unknown",
}

// Valid reports whether p is one of the known phases.
func (p GamePhase) Valid() bool {
	_, ok := phaseTitles[p]
	return ok
}

// Title returns the human readable name of the phase.
func (p GamePhase) Title() string {
	if t, ok := phaseTitles[p]; ok {
		return t
	}
	return phaseTitles[PhaseUnknown]
}

// ParsePhase converts a raw string into a GamePhase.
func ParsePhase(s string) (GamePhase, error) {
	p := GamePhase(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown game phase %q", s)
	}
	return p, nil
}

// Status holds the numeric attributes of a character.
type Status struct {
	Strength     int `json:"strength" yaml:"strength"`
	Agility      int `json:"agility" yaml:"agility"`
	Mentality    int `json:"mentality" yaml:"mentality"`
	Luck         int `json:"luck" yaml:"luck"`
	Intelligence int `json:"intelligence" yaml:"intelligence"`
	BaseHP       int `json:"base_hp" yaml:"base_hp"`
	CurrentHP    int `json:"current_hp" yaml:"current_hp"`
}

// IsZero reports whether no attribute has been set yet.
func (s Status) IsZero() bool {
	return s == Status{}
}

// CharacterState describes the player's character.
type CharacterState struct {
	Name         string `json:"name" yaml:"name"`
	Race         string `json:"race" yaml:"race"`
	Profession   string `json:"profession" yaml:"profession"`
	Status       Status `json:"status" yaml:"status"`
	LocationType string `json:"location_type" yaml:"location_type"`
	Location     string `json:"location" yaml:"location"`
	AttackItem   string `json:"attack_item" yaml:"attack_item"`
	DefenseItem  string `json:"defense_item" yaml:"defense_item"`
}

// SessionState is the record threaded through one session's execution.
// Handlers never mutate it directly; they return an Update that Merge folds in.
type SessionState struct {
	UserMessages   []string       `json:"user_messages" yaml:"user_messages"`
	SystemMessages []string       `json:"system_messages" yaml:"system_messages"`
	Character      CharacterState `json:"character_state" yaml:"character_state"`
	Phase          GamePhase      `json:"game_phase" yaml:"game_phase"`
	GameContext    []string       `json:"game_context" yaml:"game_context"`
	StorySummary   string         `json:"story_summary" yaml:"story_summary"`
	QuestionTime   int            `json:"question_time" yaml:"question_time"`
	CacheBox       map[string]any `json:"cache_box,omitempty" yaml:"cache_box,omitempty"`

	// RetryCounters is engine bookkeeping for retry guards, keyed per conditional edge.
	RetryCounters map[string]int `json:"retry_counters,omitempty" yaml:"retry_counters,omitempty"`
}

// New returns an empty state positioned at the introduction phase.
func New() *SessionState {
	return &SessionState{Phase: PhaseIntroduction}
}

// Clone returns a copy that shares no slices or maps with s.
// CacheBox values themselves are copied shallowly.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	c := *s
	c.UserMessages = slices.Clone(s.UserMessages)
	c.SystemMessages = slices.Clone(s.SystemMessages)
	c.GameContext = slices.Clone(s.GameContext)
	c.CacheBox = maps.Clone(s.CacheBox)
	c.RetryCounters = maps.Clone(s.RetryCounters)
	return &c
}

// LastUserMessage returns the most recent player utterance, or "".
func (s *SessionState) LastUserMessage() string {
	if len(s.UserMessages) == 0 {
		return ""
	}
	return s.UserMessages[len(s.UserMessages)-1]
}

// LastSystemMessage returns the most recent narration, or "".
func (s *SessionState) LastSystemMessage() string {
	if len(s.SystemMessages) == 0 {
		return ""
	}
	return s.SystemMessages[len(s.SystemMessages)-1]
}

// RetryCount returns the attempt counter stored under key.
func (s *SessionState) RetryCount(key string) int {
	return s.RetryCounters[key]
}

// SetRetryCount stores the attempt counter for key. A zero count removes it.
func (s *SessionState) SetRetryCount(key string, n int) {
	if n == 0 {
		delete(s.RetryCounters, key)
		return
	}
	if s.RetryCounters == nil {
		s.RetryCounters = make(map[string]int)
	}
	s.RetryCounters[key] = n
}
