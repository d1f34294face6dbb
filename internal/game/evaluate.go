// internal/game/evaluate.go
//
// Guess scoring. Pure function, no session state.

package game

// Evaluate scores guess against answer and returns one Status per position.
//
// Implements the standard two-pass algorithm:
//
// Pass 1:
//   - Mark exact matches as correct.
//   - Count the remaining (non-matched) answer letters into a pool.
//
// Pass 2, left to right:
//   - For each non-correct position: if the pool still holds an occurrence
//     of the guessed letter, mark present and consume it; otherwise absent.
//
// Consuming from the pool is what keeps repeated letters honest: the number
// of correct+present marks for any letter never exceeds that letter's
// occurrence count in the answer. A naive per-letter containment check
// over-counts repeats and is not acceptable here.
//
// Both inputs must be equal-length lowercase a-z; callers validate first.
func Evaluate(guess, answer string) []Status {
	n := len(answer)
	out := make([]Status, n)
	if len(guess) != n {
		return out
	}

	// Pool of answer letters not claimed by an exact match.
	var pool [26]int

	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			out[i] = StatusCorrect
		} else {
			pool[answer[i]-'a']++
		}
	}

	for i := 0; i < n; i++ {
		if out[i] == StatusCorrect {
			continue
		}
		j := int(guess[i] - 'a')
		if j >= 0 && j < 26 && pool[j] > 0 {
			out[i] = StatusPresent
			pool[j]--
		} else {
			out[i] = StatusAbsent
		}
	}
	return out
}

// isLowerAlpha reports whether s consists only of ASCII a-z.
func isLowerAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return len(s) > 0
}
