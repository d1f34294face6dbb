package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gridle-game/gridle/internal/game"
)

// stubSource fixes the answer and allows a small dictionary.
type stubSource struct {
	answer  string
	allowed map[string]bool
}

func (s stubSource) Answer() string          { return s.answer }
func (s stubSource) IsAllowed(w string) bool { return w == s.answer || s.allowed[w] }

func newTestModel(t *testing.T, answer string, allowed ...string) Model {
	t.Helper()
	set := make(map[string]bool, len(allowed))
	for _, w := range allowed {
		set[w] = true
	}
	m, err := New(stubSource{answer: answer, allowed: set})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// typeAndSubmit feeds a word and enter, then drains the reveal ticks.
func typeAndSubmit(m Model, word string) Model {
	for _, r := range word {
		next, _ := m.Update(keyRune(r))
		m = next.(Model)
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	for cmd != nil {
		next, cmd = m.Update(revealTickMsg{})
		m = next.(Model)
	}
	return m
}

func TestTypingFillsRow(t *testing.T) {
	m := newTestModel(t, "crane")
	for _, r := range "tra" {
		next, _ := m.Update(keyRune(r))
		m = next.(Model)
	}
	if got := m.Session().CurrentWord(); got != "tra" {
		t.Fatalf("current word = %q, want %q", got, "tra")
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = next.(Model)
	if got := m.Session().CurrentWord(); got != "tr" {
		t.Fatalf("after backspace = %q, want %q", got, "tr")
	}
}

func TestSubmitStartsReveal(t *testing.T) {
	m := newTestModel(t, "crane", "trace")
	for _, r := range "trace" {
		next, _ := m.Update(keyRune(r))
		m = next.(Model)
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if !m.revealing {
		t.Fatal("expected reveal to start after submit")
	}
	if cmd == nil {
		t.Fatal("expected a tick command")
	}
	// Input is held while revealing.
	next, _ = m.Update(keyRune('x'))
	m = next.(Model)
	if got := m.Session().CurrentWord(); got != "" {
		t.Fatalf("letter accepted during reveal: %q", got)
	}
	// Drain ticks; input reopens.
	for i := 0; i < m.Session().Cols(); i++ {
		next, _ = m.Update(revealTickMsg{})
		m = next.(Model)
	}
	if m.revealing {
		t.Fatal("reveal never finished")
	}
	if !m.Session().AcceptingInput() {
		t.Fatal("session still holding input after reveal")
	}
}

func TestWinShowsBanner(t *testing.T) {
	m := newTestModel(t, "crane")
	m = typeAndSubmit(m, "crane")
	if m.Session().Outcome() != game.OutcomeWon {
		t.Fatalf("outcome = %v, want won", m.Session().Outcome())
	}
	if view := m.View(); !strings.Contains(view, "You got it") {
		t.Fatalf("win banner missing from view:\n%s", view)
	}
}

func TestLossRevealsAnswer(t *testing.T) {
	m := newTestModel(t, "crane", "trace")
	for i := 0; i < 6; i++ {
		m = typeAndSubmit(m, "trace")
	}
	if m.Session().Outcome() != game.OutcomeLost {
		t.Fatalf("outcome = %v, want lost", m.Session().Outcome())
	}
	if view := m.View(); !strings.Contains(view, "CRANE") {
		t.Fatalf("answer missing from loss view:\n%s", view)
	}
}

func TestNoticeOnShortGuess(t *testing.T) {
	m := newTestModel(t, "crane")
	for _, r := range "tr" {
		next, _ := m.Update(keyRune(r))
		m = next.(Model)
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.notice != "Not enough letters" {
		t.Fatalf("notice = %q", m.notice)
	}
	if view := m.View(); !strings.Contains(view, "Not enough letters") {
		t.Fatal("notice missing from view")
	}
}

func TestUnknownWordNotice(t *testing.T) {
	m := newTestModel(t, "crane")
	for _, r := range "zzzzz" {
		next, _ := m.Update(keyRune(r))
		m = next.(Model)
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.notice != "Not in word list" {
		t.Fatalf("notice = %q", m.notice)
	}
}
