// internal/tui/model.go
//
// Terminal frontend for the game engine. One Model drives one session;
// evaluated rows are revealed tile by tile on a tick before input reopens,
// using the session's manual-reveal latch.

package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gridle-game/gridle/internal/game"
	"github.com/gridle-game/gridle/internal/words"
)

const revealStep = 180 * time.Millisecond

// keyMap declares the non-letter bindings shown in the help bar.
type keyMap struct {
	Submit  key.Binding
	Delete  key.Binding
	NewGame key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Delete, k.NewGame, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Delete}, {k.NewGame, k.Quit}}
}

var keys = keyMap{
	Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Delete:  key.NewBinding(key.WithKeys("backspace"), key.WithHelp("bksp", "delete")),
	NewGame: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new game")),
	Quit:    key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

// revealTickMsg advances the row reveal animation by one tile.
type revealTickMsg struct{}

func revealTick() tea.Cmd {
	return tea.Tick(revealStep, func(time.Time) tea.Msg { return revealTickMsg{} })
}

// Model is the bubbletea model for one interactive game.
type Model struct {
	sess   *game.Session
	help   help.Model
	notice string

	// reveal animation state: row being revealed and tiles shown so far
	revealRow  int
	revealCols int
	revealing  bool

	quitting bool
}

// New builds a model around a fresh session on the given word source.
func New(src game.WordSource) (Model, error) {
	sess, err := game.NewSession(src, game.WithManualReveal())
	if err != nil {
		return Model{}, err
	}
	return Model{sess: sess, revealRow: -1, help: help.New()}, nil
}

func (m Model) Init() tea.Cmd { return nil }

// Session exposes the underlying session (tests).
func (m Model) Session() *game.Session { return m.sess }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case revealTickMsg:
		return m.advanceReveal()
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.NewGame):
		if m.sess.Outcome().Finished() {
			return m.restart()
		}
	}
	if m.revealing {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Submit):
		return m.submit()
	case key.Matches(msg, keys.Delete):
		_ = m.sess.Handle(game.Input{Kind: game.InputDelete})
		m.notice = ""
		return m, nil
	}
	if r := msg.Runes; len(r) == 1 {
		if err := m.sess.Handle(game.Input{Kind: game.InputLetter, Letter: r[0]}); err == nil {
			m.notice = ""
		}
	}
	return m, nil
}

// submit evaluates the row and kicks off the reveal animation.
func (m Model) submit() (tea.Model, tea.Cmd) {
	row := len(m.sess.Guesses())
	err := m.sess.Handle(game.Input{Kind: game.InputSubmit})
	switch {
	case err == nil:
		m.notice = ""
		m.revealing = true
		m.revealRow = row
		m.revealCols = 0
		return m, revealTick()
	case errors.Is(err, game.ErrGuessIncomplete):
		m.notice = "Not enough letters"
	case errors.Is(err, game.ErrWordUnknown):
		m.notice = "Not in word list"
	}
	return m, nil
}

// advanceReveal shows one more tile; when the row is fully shown it hands
// control back to the session.
func (m Model) advanceReveal() (tea.Model, tea.Cmd) {
	if !m.revealing {
		return m, nil
	}
	m.revealCols++
	if m.revealCols < m.sess.Cols() {
		return m, revealTick()
	}
	m.revealing = false
	m.revealRow = -1
	m.sess.FinishReveal()
	return m, nil
}

func (m Model) restart() (tea.Model, tea.Cmd) {
	sess, err := game.NewSession(words.ForRandom(), game.WithManualReveal())
	if err != nil {
		m.notice = "could not start a new game"
		return m, nil
	}
	m.sess = sess
	m.notice = ""
	m.revealing = false
	m.revealRow = -1
	return m, nil
}

// Run starts the interactive program on a random answer.
func Run() error {
	if err := words.Init(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	m, err := New(words.ForRandom())
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
