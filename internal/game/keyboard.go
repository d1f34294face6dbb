// internal/game/keyboard.go
//
// Keyboard overlay: best-known status per letter across all evaluated rows.

package game

// Keyboard aggregates evaluated letter statuses for the on-screen keyboard.
// Merging is monotonic: correct > present > absent > unknown, and a letter
// never downgrades once a better status is known.
type Keyboard struct {
	best [26]Status
}

// NewKeyboard returns an overlay with every letter unknown.
func NewKeyboard() *Keyboard { return &Keyboard{} }

// Record merges an evaluated status for letter into the overlay.
// Non-letters and non-evaluated statuses are ignored.
func (k *Keyboard) Record(letter rune, s Status) {
	if letter < 'a' || letter > 'z' || !s.Evaluated() {
		return
	}
	i := letter - 'a'
	if s > k.best[i] {
		k.best[i] = s
	}
}

// StatusOf returns the best-known status for letter, or StatusEmpty if the
// letter has not appeared in any evaluated row.
func (k *Keyboard) StatusOf(letter rune) Status {
	if letter < 'a' || letter > 'z' {
		return StatusEmpty
	}
	return k.best[letter-'a']
}

// Known returns the letters with an evaluated status. Safe for rendering.
func (k *Keyboard) Known() map[rune]Status {
	out := make(map[rune]Status)
	for i, s := range k.best {
		if s != StatusEmpty {
			out['a'+rune(i)] = s
		}
	}
	return out
}
