package game

import "testing"

func TestBoardFillAndErase(t *testing.T) {
	b := NewBoard(6, 5)

	if got := b.FilledCount(); got != 0 {
		t.Fatalf("fresh board FilledCount = %d, want 0", got)
	}
	if b.Erase() {
		t.Fatal("Erase on empty row should be a no-op")
	}

	for i, r := range "crane" {
		if !b.Press(r) {
			t.Fatalf("Press(%q) failed at %d", r, i)
		}
	}
	if got := b.FilledCount(); got != 5 {
		t.Fatalf("FilledCount = %d, want 5", got)
	}
	if b.Press('x') {
		t.Fatal("Press on full row should be a no-op")
	}
	if got := b.CurrentWord(); got != "crane" {
		t.Fatalf("CurrentWord = %q, want %q", got, "crane")
	}

	if !b.Erase() {
		t.Fatal("Erase on filled row failed")
	}
	if got := b.CurrentWord(); got != "cran" {
		t.Fatalf("CurrentWord after erase = %q, want %q", got, "cran")
	}
	if got := b.Cell(0, 4); got.Status != StatusEmpty || got.Letter != 0 {
		t.Fatalf("erased cell = %+v, want empty", got)
	}
}

func TestBoardCommitAdvancesRow(t *testing.T) {
	b := NewBoard(2, 5)
	for _, r := range "troll" {
		b.Press(r)
	}
	b.commit(Evaluate("troll", "allow"))

	if got := b.CurrentRow(); got != 1 {
		t.Fatalf("CurrentRow = %d, want 1", got)
	}
	if got := b.FilledCount(); got != 0 {
		t.Fatalf("FilledCount on next row = %d, want 0", got)
	}
	// committed row keeps its letters, with evaluated statuses
	for i, r := range "troll" {
		c := b.Cell(0, i)
		if c.Letter != r || !c.Status.Evaluated() {
			t.Fatalf("cell(0,%d) = %+v, want letter %q evaluated", i, c, r)
		}
	}
	// second commit exhausts the board
	for _, r := range "whirl" {
		b.Press(r)
	}
	b.commit(Evaluate("whirl", "allow"))
	if got := b.CurrentRow(); got != 2 {
		t.Fatalf("CurrentRow after last commit = %d, want 2", got)
	}
	if b.Press('a') || b.Erase() {
		t.Fatal("exhausted board must reject input")
	}
}

func TestBoardNoGaps(t *testing.T) {
	b := NewBoard(6, 5)
	b.Press('a')
	b.Press('b')
	b.Erase()
	b.Press('c')
	// cells fill strictly left to right: a then c, no hole
	if got := b.CurrentWord(); got != "ac" {
		t.Fatalf("CurrentWord = %q, want %q", got, "ac")
	}
	for i := b.FilledCount(); i < 5; i++ {
		if c := b.Cell(0, i); c.Status != StatusEmpty {
			t.Fatalf("cell(0,%d) = %+v, want empty", i, c)
		}
	}
}

func TestBoardGridIsACopy(t *testing.T) {
	b := NewBoard(6, 5)
	b.Press('a')
	grid := b.Grid()
	grid[0][0] = Cell{Letter: 'z', Status: StatusCorrect}
	if got := b.Cell(0, 0); got.Letter != 'a' || got.Status != StatusActive {
		t.Fatalf("board mutated through Grid snapshot: %+v", got)
	}
}
