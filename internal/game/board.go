// internal/game/board.go
//
// Board state: a fixed grid of rows x cols cells. One row is "current" and
// accumulates typed letters; rows above are fully evaluated, rows below are
// untouched. The board enforces left-to-right fill with no gaps.

package game

// Board holds the guess grid for one session.
type Board struct {
	cells [][]Cell
	cur   int // row being filled; == rows once the grid is exhausted
	cols  int
}

// NewBoard constructs an empty rows x cols board.
func NewBoard(rows, cols int) *Board {
	b := &Board{cols: cols, cells: make([][]Cell, rows)}
	for i := range b.cells {
		b.cells[i] = make([]Cell, cols)
	}
	return b
}

func (b *Board) Rows() int { return len(b.cells) }
func (b *Board) Cols() int { return b.cols }

// CurrentRow returns the index of the row accumulating input.
// Equals Rows() when every row has been evaluated.
func (b *Board) CurrentRow() int { return b.cur }

// FilledCount returns how many cells of the current row hold a letter.
func (b *Board) FilledCount() int {
	if b.cur >= len(b.cells) {
		return 0
	}
	n := 0
	for _, c := range b.cells[b.cur] {
		if c.Status == StatusEmpty {
			break
		}
		n++
	}
	return n
}

// Press fills the next empty cell of the current row with r.
// No-op (false) when the row is already full or the grid is exhausted.
// r must be lowercase a-z; callers normalize and filter first.
func (b *Board) Press(r rune) bool {
	if b.cur >= len(b.cells) {
		return false
	}
	n := b.FilledCount()
	if n >= b.cols {
		return false
	}
	b.cells[b.cur][n] = Cell{Letter: r, Status: StatusActive}
	return true
}

// Erase clears the last filled cell of the current row.
// No-op (false) when the row is empty.
func (b *Board) Erase() bool {
	if b.cur >= len(b.cells) {
		return false
	}
	n := b.FilledCount()
	if n == 0 {
		return false
	}
	b.cells[b.cur][n-1] = Cell{}
	return true
}

// CurrentWord returns the letters typed so far in the current row.
func (b *Board) CurrentWord() string {
	if b.cur >= len(b.cells) {
		return ""
	}
	out := make([]rune, 0, b.cols)
	for _, c := range b.cells[b.cur] {
		if c.Status == StatusEmpty {
			break
		}
		out = append(out, c.Letter)
	}
	return string(out)
}

// commit writes evaluated marks into the current row and advances the
// cursor. The row must be full and len(marks) must equal Cols.
func (b *Board) commit(marks []Status) {
	row := b.cells[b.cur]
	for i := range row {
		row[i].Status = marks[i]
	}
	b.cur++
}

// Cell returns a copy of the cell at (row, col).
func (b *Board) Cell(row, col int) Cell { return b.cells[row][col] }

// Grid returns a copy of all cells, row-major. Safe for rendering.
func (b *Board) Grid() [][]Cell {
	out := make([][]Cell, len(b.cells))
	for i, row := range b.cells {
		out[i] = make([]Cell, len(row))
		copy(out[i], row)
	}
	return out
}
