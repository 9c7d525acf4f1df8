// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package state

// Update is the partial state a node handler returns.
//
// Nil slices, nil maps and nil pointers mean "key not present". The append
// keys (UserMessages, SystemMessages, GameContext) are concatenated onto the
// existing values, everything else replaces the current value. Character is
// merged field by field.
type Update struct {
	UserMessages   []string
	SystemMessages []string
	GameContext    []string

	Character    *CharacterPatch
	Phase        *GamePhase
	StorySummary *string
	QuestionTime *int
	CacheBox     map[string]any
}

// IsZero reports whether the update carries no keys at all.
func (u Update) IsZero() bool {
	return u.UserMessages == nil &&
		u.SystemMessages == nil &&
		u.GameContext == nil &&
		u.Character == nil &&
		u.Phase == nil &&
		u.StorySummary == nil &&
		u.QuestionTime == nil &&
		u.CacheBox == nil
}

// CharacterPatch lists the character fields an update replaces.
type CharacterPatch struct {
	Name         *string
	Race         *string
	Profession   *string
	Status       *Status
	LocationType *string
	Location     *string
	AttackItem   *string
	DefenseItem  *string
}

// Ptr returns a pointer to v. It keeps update literals short.
func Ptr[T any](v T) *T {
	return &v
}
