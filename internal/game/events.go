// internal/game/events.go
//
// Presentation sink: the session reports transitions through this interface
// so UIs (terminal, websocket relay) can render them. The engine has no
// dependency on how, or whether, any of these are displayed.

package game

// Sink receives session events. Each transition produces at most one call
// per method; implementations must not call back into the session while
// handling an event.
type Sink interface {
	// GuessIncomplete: submit with fewer than the required letters.
	GuessIncomplete(filled, need int)
	// WordUnknown: submit with a word outside the allowed dictionary.
	WordUnknown(word string)
	// CellRevealed: one cell of a submitted row got its verdict.
	// Called left to right before RowRevealed.
	CellRevealed(row, col int, letter rune, status Status)
	// RowRevealed: a full row was evaluated.
	RowRevealed(row int, marks []Status)
	// GameWon: the row at index row matched the answer.
	GameWon(row int)
	// GameLost: the last row was used without a match.
	GameLost(answer string)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) GuessIncomplete(int, int)            {}
func (NopSink) WordUnknown(string)                  {}
func (NopSink) CellRevealed(int, int, rune, Status) {}
func (NopSink) RowRevealed(int, []Status)           {}
func (NopSink) GameWon(int)                         {}
func (NopSink) GameLost(string)                     {}
