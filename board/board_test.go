package board

import (
	"math/rand"
	"testing"

	"github.com/wfunc/minesweeper/tile"
)

func TestNeighborWiring(t *testing.T) {
	b := New(3, 3)

	cases := []struct {
		x, y, want int
	}{
		{0, 0, 3}, // corner
		{1, 0, 5}, // edge
		{1, 1, 8}, // center
	}
	for _, c := range cases {
		got := len(b.At(c.x, c.y).Neighbors())
		if got != c.want {
			t.Errorf("tile (%d,%d): %d neighbors, want %d", c.x, c.y, got, c.want)
		}
	}
}

func TestAtOutOfRange(t *testing.T) {
	b := New(3, 3)
	for _, c := range []Coord{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 3, Y: 0}, {X: 0, Y: 3}} {
		if b.At(c.X, c.Y) != nil {
			t.Errorf("At(%d,%d) should be nil", c.X, c.Y)
		}
	}
}

func TestNewRandomPlacesExactCount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := NewRandom(9, 9, 10, rng)

	if b.MineCount != 10 {
		t.Fatalf("MineCount = %d, want 10", b.MineCount)
	}
	mines := 0
	b.Each(func(tl *tile.Tile) {
		if tl.IsMine() {
			mines++
		}
	})
	if mines != 10 {
		t.Errorf("counted %d mines on the grid, want 10", mines)
	}
}

func TestValuesMatchAdjacentMines(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b := NewRandom(8, 8, 12, rng)

	b.Each(func(tl *tile.Tile) {
		if tl.IsMine() {
			return
		}
		adjacent := 0
		for _, n := range tl.Neighbors() {
			if n.IsMine() {
				adjacent++
			}
		}
		if tl.Value != adjacent {
			t.Errorf("tile (%d,%d): Value = %d, adjacent mines = %d", tl.X, tl.Y, tl.Value, adjacent)
		}
	})
}

func TestCornerOpenOnCenterMine(t *testing.T) {
	// 3x3, single mine at center: every other tile is a 1, so opening a
	// corner reveals exactly that corner.
	b := NewFromLayout(3, 3, []Coord{{X: 1, Y: 1}})

	changed := b.At(0, 0).Open(false)
	if changed.Size() != 1 {
		t.Fatalf("corner open revealed %d tiles, want 1", changed.Size())
	}
	if got := b.At(0, 0).Status(); got != 1 {
		t.Errorf("corner status = %d, want 1", got)
	}
}

func TestZeroMineBoardOpensFully(t *testing.T) {
	b := New(5, 5)

	changed := b.At(4, 4).Open(false)
	if changed.Size() != 25 {
		t.Fatalf("revealed %d tiles, want 25", changed.Size())
	}
	if !b.CheckClear() {
		t.Error("board with no mines should be clear after one open")
	}
}

func TestBlastReveal(t *testing.T) {
	// Mines at (0,0) and (2,2); flag the non-mine (1,0), then open the
	// mine at (0,0).
	b := NewFromLayout(3, 3, []Coord{{X: 0, Y: 0}, {X: 2, Y: 2}})
	b.At(1, 0).Flag(false)
	b.At(0, 0).Open(false)

	if !b.Blasted() {
		t.Fatal("opening a mine should blast the board")
	}

	statuses := b.BlastStatuses()
	if statuses[0][0] != tile.StatusBlast {
		t.Errorf("clicked mine: status %d, want %d", statuses[0][0], tile.StatusBlast)
	}
	if statuses[2][2] != tile.StatusMine {
		t.Errorf("other unflagged mine: status %d, want %d", statuses[2][2], tile.StatusMine)
	}
	if statuses[0][1] != tile.StatusWrongFlag {
		t.Errorf("flagged non-mine: status %d, want %d", statuses[0][1], tile.StatusWrongFlag)
	}
	if statuses[1][1] != tile.StatusCovered {
		t.Errorf("untouched tile: status %d, want %d", statuses[1][1], tile.StatusCovered)
	}
}

func TestFinishReveal(t *testing.T) {
	b := NewFromLayout(2, 2, []Coord{{X: 0, Y: 0}, {X: 1, Y: 1}})
	b.At(0, 0).Flag(false)

	statuses := b.FinishStatuses()
	if statuses[0][0] != tile.StatusFlagged {
		t.Errorf("flagged mine: status %d, want %d", statuses[0][0], tile.StatusFlagged)
	}
	if statuses[1][1] != tile.StatusUnflagged {
		t.Errorf("unflagged mine: status %d, want %d", statuses[1][1], tile.StatusUnflagged)
	}
}

func TestMinesRemaining(t *testing.T) {
	b := NewFromLayout(3, 3, []Coord{{X: 1, Y: 1}})
	if b.MinesRemaining() != 1 {
		t.Fatalf("MinesRemaining = %d, want 1", b.MinesRemaining())
	}
	b.At(0, 0).Flag(false)
	b.At(2, 2).Flag(false)
	if b.MinesRemaining() != -1 {
		t.Errorf("over-flagged: MinesRemaining = %d, want -1", b.MinesRemaining())
	}
}

func TestRecoverResetsGameplayOnly(t *testing.T) {
	b := NewFromLayout(3, 3, []Coord{{X: 1, Y: 1}})
	b.At(0, 0).Open(false)
	b.At(2, 2).Flag(false)

	b.Recover()

	b.Each(func(tl *tile.Tile) {
		if !tl.Covered || tl.Flagged || tl.Down || tl.NeighborFlags != 0 {
			t.Errorf("tile (%d,%d) not recovered", tl.X, tl.Y)
		}
	})
	if !b.At(1, 1).IsMine() {
		t.Error("mine layout must survive Recover")
	}
	if b.MineCount != 1 {
		t.Errorf("MineCount = %d, want 1", b.MineCount)
	}
}

func TestPlaceMinesIdempotent(t *testing.T) {
	b := New(3, 3)
	b.PlaceMines([]Coord{{X: 0, Y: 0}, {X: 0, Y: 0}})
	if b.MineCount != 1 {
		t.Errorf("MineCount = %d, want 1 after duplicate placement", b.MineCount)
	}
	if b.At(1, 1).Value != 1 {
		t.Errorf("neighbor value = %d, want 1 (no double increment)", b.At(1, 1).Value)
	}
}
