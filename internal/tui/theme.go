package tui

import "github.com/charmbracelet/lipgloss"

// Tile palette, close to the familiar web colors.
const (
	colorCorrect lipgloss.Color = "#538d4e"
	colorPresent lipgloss.Color = "#b59f3b"
	colorAbsent  lipgloss.Color = "#3a3a3c"
	colorEmpty   lipgloss.Color = "#121213"
	colorBorder  lipgloss.Color = "#565758"
	colorText    lipgloss.Color = "#ffffff"
	colorDim     lipgloss.Color = "#818384"
	colorBad     lipgloss.Color = "#f38ba8"
)

var (
	tileBase = lipgloss.NewStyle().
			Width(5).Height(1).
			Align(lipgloss.Center).
			Bold(true).
			Foreground(colorText).
			MarginRight(1)

	tileEmpty   = tileBase.Foreground(colorDim).Background(colorEmpty)
	tileActive  = tileBase.Background(colorEmpty).Foreground(colorText)
	tileCorrect = tileBase.Background(colorCorrect)
	tilePresent = tileBase.Background(colorPresent)
	tileAbsent  = tileBase.Background(colorAbsent)

	keyBase = lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(colorText).
		MarginRight(1)

	keyUnknown = keyBase.Background(colorBorder)
	keyCorrect = keyBase.Background(colorCorrect)
	keyPresent = keyBase.Background(colorPresent)
	keyAbsent  = keyBase.Background(colorAbsent)

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorText).MarginBottom(1)
	noticeStyle = lipgloss.NewStyle().Foreground(colorBad).Bold(true)
	winStyle    = lipgloss.NewStyle().Foreground(colorCorrect).Bold(true)
	loseStyle   = lipgloss.NewStyle().Foreground(colorBad).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(colorDim)
)
