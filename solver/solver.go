package solver

import (
	"github.com/wfunc/minesweeper/board"
	"github.com/wfunc/minesweeper/tile"
)

// MoveType classifies a suggested move.
type MoveType int

const (
	MoveOpen MoveType = iota
	MoveFlag
)

// Move is a single suggested play.
type Move struct {
	Type MoveType `json:"type"`
	X    int      `json:"x"`
	Y    int      `json:"y"`
}

// Solver suggests moves with the single-point strategy: each open number
// tile is examined in isolation. When its value equals its covered-neighbor
// count, every covered neighbor is a mine; when its value equals its flag
// count, every covered unflagged neighbor is safe. No guessing: NextMove
// returns nil when the strategy stalls.
type Solver struct {
	board *board.Board
}

func New(b *board.Board) *Solver {
	return &Solver{board: b}
}

// NextMove scans the board in row order and returns the first deduced move,
// or nil when nothing can be deduced.
func (s *Solver) NextMove() *Move {
	var move *Move
	s.board.Each(func(t *tile.Tile) {
		if move != nil {
			return
		}
		move = s.examine(t)
	})
	return move
}

func (s *Solver) examine(t *tile.Tile) *Move {
	if t.Covered || t.IsMine() || t.Value == 0 {
		return nil
	}

	var covered, unflagged []*tile.Tile
	for _, n := range t.Neighbors() {
		if !n.Covered {
			continue
		}
		covered = append(covered, n)
		if !n.Flagged {
			unflagged = append(unflagged, n)
		}
	}
	if len(unflagged) == 0 {
		return nil
	}

	if t.Value == len(covered) {
		n := unflagged[0]
		return &Move{Type: MoveFlag, X: n.X, Y: n.Y}
	}
	if t.Value == t.NeighborFlags {
		n := unflagged[0]
		return &Move{Type: MoveOpen, X: n.X, Y: n.Y}
	}
	return nil
}
