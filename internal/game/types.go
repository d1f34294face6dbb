// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Status:  per-cell evaluation state (empty/active/correct/present/absent).
//   - Cell:    one letter slot on the board.
//   - Outcome: coarse session state (playing/won/lost).

package game

import (
	"encoding/json"
	"fmt"
)

// Status represents the state of a single board cell or keyboard letter.
//
// The ordering is deliberate: for evaluated statuses, a larger value is
// "better known" (correct > present > absent), so the keyboard overlay can
// merge by numeric comparison.
type Status uint8

const (
	// StatusEmpty marks an untouched cell (or an unknown keyboard letter).
	StatusEmpty Status = iota
	// StatusActive marks a typed but not yet evaluated letter.
	StatusActive
	// StatusAbsent: letter does not occur in the answer (beyond occurrences
	// already claimed elsewhere).
	StatusAbsent
	// StatusPresent: letter occurs in the answer at a different position.
	StatusPresent
	// StatusCorrect: letter is in the right position.
	StatusCorrect
)

// Evaluated reports whether s is a terminal per-letter verdict.
func (s Status) Evaluated() bool {
	return s == StatusAbsent || s == StatusPresent || s == StatusCorrect
}

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusAbsent:
		return "absent"
	case StatusPresent:
		return "present"
	case StatusCorrect:
		return "correct"
	default:
		return "empty"
	}
}

// MarshalJSON encodes a Status as its string form ("correct", "present", ...).
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes the string form back into a Status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "empty":
		*s = StatusEmpty
	case "active":
		*s = StatusActive
	case "absent":
		*s = StatusAbsent
	case "present":
		*s = StatusPresent
	case "correct":
		*s = StatusCorrect
	default:
		return fmt.Errorf("game: unknown status %q", name)
	}
	return nil
}

// Cell is one letter slot on the board.
// Invariant: Letter is zero exactly when Status is StatusEmpty.
type Cell struct {
	Letter rune
	Status Status
}

// Outcome is the coarse state of a session. Terminal once won or lost.
type Outcome uint8

const (
	OutcomePlaying Outcome = iota
	OutcomeWon
	OutcomeLost
)

// Finished reports whether the outcome is terminal.
func (o Outcome) Finished() bool { return o != OutcomePlaying }

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "playing"
	}
}

// MarshalJSON encodes an Outcome as "playing", "won" or "lost".
func (o Outcome) MarshalJSON() ([]byte, error) {
	return []byte(`"` + o.String() + `"`), nil
}

// UnmarshalJSON decodes the string form back into an Outcome.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "playing":
		*o = OutcomePlaying
	case "won":
		*o = OutcomeWon
	case "lost":
		*o = OutcomeLost
	default:
		return fmt.Errorf("game: unknown outcome %q", name)
	}
	return nil
}

// WordSource supplies the answer for a session and the guess dictionary.
// Implementations must be deterministic for the lifetime of a session.
type WordSource interface {
	// Answer returns the session's target word (lowercase a-z).
	Answer() string
	// IsAllowed reports whether word is an accepted guess. Case-insensitive.
	IsAllowed(word string) bool
}
