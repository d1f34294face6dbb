// internal/words/source.go
//
// Word sources backed by the loaded lists. A Source fixes the answer at
// construction (random draw, explicit word, or deterministic index), so
// sessions built on it never depend on the clock or global state.

package words

import (
	"fmt"
	"strings"
)

// Source implements the game engine's WordSource against the loaded lists.
type Source struct {
	answer string
}

// Answer returns the fixed answer for this source.
func (s Source) Answer() string { return s.answer }

// IsAllowed reports whether w is a legal guess. The session's own answer is
// always legal even when it came from outside the lists (fixed-word mode).
func (s Source) IsAllowed(w string) bool {
	w = strings.ToLower(strings.TrimSpace(w))
	return w == s.answer || IsAllowed(w)
}

// ForRandom draws a random answer. Init must have run.
func ForRandom() Source {
	return Source{answer: RandomAnswer()}
}

// ForIndex selects the answer at a deterministic list index (daily mode).
func ForIndex(i int) Source {
	return Source{answer: AnswerAt(i)}
}

// ForAnswer pins an explicit answer (tests, cheat games).
func ForAnswer(w string) (Source, error) {
	w = strings.ToLower(strings.TrimSpace(w))
	if !valid(w) {
		return Source{}, fmt.Errorf("words: %q is not a playable answer", w)
	}
	return Source{answer: w}, nil
}
