// internal/game/session.go
//
// Session: the progression controller for one game.
// Responsibilities:
//   - Own Board, Keyboard and Outcome for a single game instance.
//   - Accept input events (letter/delete/submit) one at a time, synchronously.
//   - Validate and score submitted guesses, publish events to the Sink.
//   - Track terminal state: no input is accepted after a win or loss.
//
// The answer comes from an injected WordSource, fixed at construction, so a
// session is fully deterministic and never reads the clock.

package game

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/oklog/ulid/v2"
)

const defaultRows = 6

// Advisory errors. All leave the session in a well-defined state and are
// also reported through the Sink where a user-facing reaction makes sense.
var (
	// ErrGuessIncomplete: submit before the current row is full.
	ErrGuessIncomplete = errors.New("guess incomplete")
	// ErrWordUnknown: submitted word is not in the allowed dictionary.
	ErrWordUnknown = errors.New("word not in list")
	// ErrInputRejected: input while the session is not accepting any
	// (mid-reveal or after the game ended). Callers ignore it silently.
	ErrInputRejected = errors.New("input rejected")
)

// InputKind discriminates the three accepted input events.
type InputKind uint8

const (
	InputLetter InputKind = iota
	InputDelete
	InputSubmit
)

// Input is one normalized player action. Letter is only read for InputLetter.
type Input struct {
	Kind   InputKind
	Letter rune
}

// Session is the state machine for one game. Not safe for concurrent use;
// callers serialize events (the HTTP layer does so via the session store).
type Session struct {
	id      string
	src     WordSource
	answer  string
	board   *Board
	keys    *Keyboard
	sink    Sink
	outcome Outcome
	guesses []string

	// revealing latches after a successful submit when the presentation
	// layer animates the verdict; input is rejected until FinishReveal.
	revealing    bool
	manualReveal bool
}

// Option configures a Session at construction.
type Option func(*Session)

// WithRows overrides the number of guess rows (default 6).
func WithRows(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.board = NewBoard(n, len(s.answer))
		}
	}
}

// WithSink attaches a presentation sink.
func WithSink(sink Sink) Option {
	return func(s *Session) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithManualReveal makes the session hold input after each evaluated row
// until FinishReveal is called. Used by animating frontends; headless
// callers (HTTP handlers, tests) skip it and input reopens immediately.
func WithManualReveal() Option {
	return func(s *Session) { s.manualReveal = true }
}

// WithID overrides the generated session ID (tests, replays).
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// NewSession constructs a session around the source's answer.
// The answer must be non-empty lowercase a-z.
func NewSession(src WordSource, opts ...Option) (*Session, error) {
	answer := src.Answer()
	if !isLowerAlpha(answer) {
		return nil, fmt.Errorf("game: bad answer %q from word source", answer)
	}
	s := &Session{
		id:     ulid.Make().String(),
		src:    src,
		answer: answer,
		keys:   NewKeyboard(),
		sink:   NopSink{},
	}
	s.board = NewBoard(defaultRows, len(answer))
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Session) ID() string       { return s.id }
func (s *Session) Rows() int        { return s.board.Rows() }
func (s *Session) Cols() int        { return s.board.Cols() }
func (s *Session) Outcome() Outcome { return s.outcome }

// Answer returns the target word. Server code persists it and reveals it to
// clients only once the session is finished.
func (s *Session) Answer() string { return s.answer }

// Board returns a copy of the grid for rendering.
func (s *Session) Board() [][]Cell { return s.board.Grid() }

// Keyboard returns the evaluated letters of the overlay.
func (s *Session) Keyboard() map[rune]Status { return s.keys.Known() }

// KeyStatus returns the overlay status for a single letter.
func (s *Session) KeyStatus(letter rune) Status { return s.keys.StatusOf(letter) }

// Guesses returns the evaluated guesses in submission order.
func (s *Session) Guesses() []string {
	out := make([]string, len(s.guesses))
	copy(out, s.guesses)
	return out
}

// FilledCount returns how many letters the current row holds.
func (s *Session) FilledCount() int { return s.board.FilledCount() }

// CurrentWord returns the in-progress (unsubmitted) guess.
func (s *Session) CurrentWord() string { return s.board.CurrentWord() }

// AcceptingInput reports whether the session will act on input events.
// False while a reveal is pending and permanently false once finished.
// Interaction layers consult this before forwarding key events.
func (s *Session) AcceptingInput() bool {
	return s.outcome == OutcomePlaying && !s.revealing
}

// Handle dispatches one input event. Synchronous: the event is fully
// applied, and any sink notifications delivered, before Handle returns.
func (s *Session) Handle(in Input) error {
	switch in.Kind {
	case InputLetter:
		return s.Press(in.Letter)
	case InputDelete:
		return s.Erase()
	case InputSubmit:
		return s.Submit()
	default:
		return ErrInputRejected
	}
}

// Press appends a letter to the current row. Case-normalized; anything
// outside a-z is rejected. Full rows swallow the press.
func (s *Session) Press(r rune) error {
	if !s.AcceptingInput() {
		return ErrInputRejected
	}
	r = unicode.ToLower(r)
	if r < 'a' || r > 'z' {
		return ErrInputRejected
	}
	s.board.Press(r)
	return nil
}

// Erase removes the last letter of the current row. Empty rows are a no-op.
func (s *Session) Erase() error {
	if !s.AcceptingInput() {
		return ErrInputRejected
	}
	s.board.Erase()
	return nil
}

// Submit evaluates the current row.
//
// Failure modes leave the row untouched: ErrGuessIncomplete when the row
// is short, ErrWordUnknown when the dictionary rejects the word. On
// success the row and keyboard overlay are updated, the sink is notified
// cell by cell and then for the row, and the outcome advances:
//   - answer matched            -> OutcomeWon
//   - last row used, no match   -> OutcomeLost
//   - otherwise                 -> next row (after any pending reveal)
func (s *Session) Submit() error {
	if !s.AcceptingInput() {
		return ErrInputRejected
	}
	filled := s.board.FilledCount()
	if filled != s.board.Cols() {
		s.sink.GuessIncomplete(filled, s.board.Cols())
		return ErrGuessIncomplete
	}
	word := s.board.CurrentWord()
	if !s.src.IsAllowed(word) {
		s.sink.WordUnknown(word)
		return ErrWordUnknown
	}

	row := s.board.CurrentRow()
	marks := Evaluate(word, s.answer)
	s.board.commit(marks)
	s.guesses = append(s.guesses, word)

	for i, m := range marks {
		s.keys.Record(rune(word[i]), m)
		s.sink.CellRevealed(row, i, rune(word[i]), m)
	}
	s.sink.RowRevealed(row, marks)

	switch {
	case word == s.answer:
		s.outcome = OutcomeWon
		s.sink.GameWon(row)
	case s.board.CurrentRow() >= s.board.Rows():
		s.outcome = OutcomeLost
		s.sink.GameLost(s.answer)
	default:
		if s.manualReveal {
			s.revealing = true
		}
	}
	return nil
}

// FinishReveal reopens input after an animated row reveal.
// No-op unless a reveal is pending.
func (s *Session) FinishReveal() { s.revealing = false }
