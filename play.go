package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gridle-game/gridle/internal/tui"
	"github.com/gridle-game/gridle/internal/words"
)

func newPlayCmd() *cobra.Command {
	var answer string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if answer == "" {
				return tui.Run()
			}
			// Fixed answer, for demos and debugging.
			if err := words.Init(); err != nil {
				return err
			}
			src, err := words.ForAnswer(answer)
			if err != nil {
				return err
			}
			m, err := tui.New(src)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&answer, "answer", "", "fix the answer word (debugging)")
	return cmd
}
