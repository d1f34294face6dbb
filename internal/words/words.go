// internal/words/words.go
//
// Word list management for the game engine.
//
// Responsibilities:
//   - Load answer and allowed guess lists from environment-provided files or
//     fall back to the embedded defaults in assets/.
//   - Maintain sets for quick lookups (answers only, answers∪guesses).
//   - Supply RandomAnswer, IsAllowed, IsAnswer, Answers and Stats.
//
// Word lists:
//   - "answers": canonical solutions (exactly 5 lowercase letters).
//   - "allowed": valid guesses (always includes answers).
//
// Environment variables:
//   GRIDLE_ANSWERS_FILE=/path/to/answers.txt
//   GRIDLE_ALLOWED_FILE=/path/to/allowed.txt
//
// If only GRIDLE_ALLOWED_FILE is set, it serves both purposes.
// Initialization runs once (sync.Once).

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/gridle-game/gridle/assets"
)

// Length is the fixed word length of the bundled lists.
const Length = 5

var (
	initOnce   sync.Once
	answers    []string            // canonical answers
	answersSet map[string]struct{} // answers only
	allowedSet map[string]struct{} // answers ∪ guesses
	initialErr error
)

// Init loads word lists exactly once.
// Returns an error if the answers list ends up empty.
func Init() error {
	initOnce.Do(func() {
		var ansList, allowList []string

		answersPath := os.Getenv("GRIDLE_ANSWERS_FILE")
		allowedPath := os.Getenv("GRIDLE_ALLOWED_FILE")

		switch {
		case answersPath != "" && allowedPath != "":
			var err error
			if ansList, err = readWordFile(answersPath); err != nil {
				initialErr = err
				return
			}
			if allowList, err = readWordFile(allowedPath); err != nil {
				initialErr = err
				return
			}

		case answersPath == "" && allowedPath != "":
			var err error
			if allowList, err = readWordFile(allowedPath); err != nil {
				initialErr = err
				return
			}
			ansList = allowList

		default:
			var err error
			if ansList, err = loadEmbedded(assets.AnswersList); err != nil {
				initialErr = err
				return
			}
			if allowList, err = loadEmbedded(assets.AllowedList); err != nil {
				initialErr = err
				return
			}
		}

		answers = ansList
		answersSet = toSet(ansList)

		// Answers are always legal guesses.
		allowedSet = toSet(ansList)
		for _, w := range allowList {
			allowedSet[w] = struct{}{}
		}

		if len(answers) == 0 {
			initialErr = errors.New("words: answers list is empty")
		}
	})
	return initialErr
}

// loadEmbedded reads an embedded list and keeps only valid words.
func loadEmbedded(fn func() ([]string, error)) ([]string, error) {
	raw, err := fn()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		if valid(w) {
			out = append(out, w)
		}
	}
	return out, nil
}

// readWordFile loads one word per line, lowercased and filtered.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(strings.ToLower(sc.Text()))
		if valid(w) {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// valid reports whether w is exactly Length lowercase ASCII letters.
func valid(w string) bool {
	if len(w) != Length {
		return false
	}
	for _, r := range w {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// Answers returns the canonical answer list. Callers must not mutate it.
func Answers() []string {
	return answers
}

// RandomAnswer returns a cryptographically random answer.
// Falls back to "crane" if lists are not loaded.
func RandomAnswer() string {
	if len(answers) == 0 {
		return "crane"
	}
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(answers))))
	return answers[nBig.Int64()]
}

// AnswerAt returns the answer at index i modulo the list length.
// Used by the daily mode's deterministic selection.
func AnswerAt(i int) string {
	if len(answers) == 0 {
		return "crane"
	}
	i %= len(answers)
	if i < 0 {
		i += len(answers)
	}
	return answers[i]
}

// IsAllowed reports whether w is a valid guess (answers ∪ guesses).
func IsAllowed(w string) bool {
	_, ok := allowedSet[strings.ToLower(w)]
	return ok
}

// IsAnswer reports whether w is an answer word.
func IsAnswer(w string) bool {
	_, ok := answersSet[strings.ToLower(w)]
	return ok
}

// Stats returns counts of loaded words: (answers, allowed).
func Stats() (answersCount int, allowedCount int) {
	return len(answers), len(allowedSet)
}
