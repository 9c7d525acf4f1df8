// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package state defines SessionState, the single record a session threads
// through the graph, and Merge, the only sanctioned way to change it.
//
// Merge rules:
//
//   - UserMessages, SystemMessages and GameContext are append keys. New
//     entries land after existing ones in arrival order. GameContext keeps
//     only its GameContextCap most recent entries.
//   - Phase, StorySummary, QuestionTime and CacheBox are replaced wholesale.
//   - Character is merged field by field, so a step can commit one attribute
//     without clobbering the others.
//
// Invariants enforced by Merge:
//
//   - QuestionTime never goes negative and only decreases by being reset to 0.
//   - Race and Profession change only in commit steps (see AllowCommit).
//   - Status attributes other than CurrentHP change only in commit steps, and
//     the first status written starts with CurrentHP equal to BaseHP.
package state
