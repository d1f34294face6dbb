package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gridle-game/gridle/internal/game"
)

var keyboardRows = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("GRIDLE"))
	b.WriteString("\n\n")
	b.WriteString(m.renderBoard())
	b.WriteString("\n")
	b.WriteString(m.renderKeyboard())
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m Model) renderBoard() string {
	grid := m.sess.Board()
	rows := make([]string, 0, len(grid))
	for r, row := range grid {
		tiles := make([]string, 0, len(row))
		for c, cell := range row {
			tiles = append(tiles, m.renderTile(r, c, cell))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	return strings.Join(rows, "\n")
}

// renderTile hides verdicts on the row still being revealed.
func (m Model) renderTile(row, col int, cell game.Cell) string {
	letter := " "
	if cell.Letter != 0 {
		letter = strings.ToUpper(string(cell.Letter))
	}
	if m.revealing && row == m.revealRow && col >= m.revealCols {
		return tileActive.Render(letter)
	}
	switch cell.Status {
	case game.StatusCorrect:
		return tileCorrect.Render(letter)
	case game.StatusPresent:
		return tilePresent.Render(letter)
	case game.StatusAbsent:
		return tileAbsent.Render(letter)
	case game.StatusActive:
		return tileActive.Render(letter)
	default:
		return tileEmpty.Render("·")
	}
}

func (m Model) renderKeyboard() string {
	lines := make([]string, 0, len(keyboardRows))
	for i, row := range keyboardRows {
		caps := make([]string, 0, len(row))
		for _, r := range row {
			label := strings.ToUpper(string(r))
			st := m.sess.KeyStatus(r)
			if m.revealing {
				// Overlay updates land with the reveal, not before.
				st = m.keyStatusBeforeReveal(r)
			}
			switch st {
			case game.StatusCorrect:
				caps = append(caps, keyCorrect.Render(label))
			case game.StatusPresent:
				caps = append(caps, keyPresent.Render(label))
			case game.StatusAbsent:
				caps = append(caps, keyAbsent.Render(label))
			default:
				caps = append(caps, keyUnknown.Render(label))
			}
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top, caps...)
		lines = append(lines, strings.Repeat(" ", i*2)+line)
	}
	return strings.Join(lines, "\n")
}

// keyStatusBeforeReveal recomputes a key's overlay status from the rows
// already fully shown, so the keyboard does not spoil the reveal.
func (m Model) keyStatusBeforeReveal(r rune) game.Status {
	kb := game.NewKeyboard()
	guesses := m.sess.Guesses()
	for i, word := range guesses {
		if i == m.revealRow {
			break
		}
		for c, l := range word {
			kb.Record(l, m.sess.Board()[i][c].Status)
		}
	}
	return kb.StatusOf(r)
}

func (m Model) renderStatus() string {
	if m.notice != "" {
		return noticeStyle.Render(m.notice)
	}
	if m.revealing {
		return hintStyle.Render("...")
	}
	switch m.sess.Outcome() {
	case game.OutcomeWon:
		return winStyle.Render("You got it! Press n for another round.")
	case game.OutcomeLost:
		return loseStyle.Render("The word was " + strings.ToUpper(m.sess.Answer()) + ". Press n to retry.")
	default:
		return hintStyle.Render("Guess the word.")
	}
}
