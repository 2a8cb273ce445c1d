package viewmodel

import (
	"github.com/wfunc/minesweeper/board"
	"github.com/wfunc/minesweeper/tile"
)

// CellView is the render state of one tile.
type CellView struct {
	State string `json:"state"`
	Count int    `json:"count,omitempty"`
}

// BoardView is the full render state the frontend draws from.
type BoardView struct {
	Width          int          `json:"width"`
	Height         int          `json:"height"`
	Cells          [][]CellView `json:"cells"`
	MinesRemaining int          `json:"mines_remaining"`
}

// Reveal selects which status variant a view is built from.
type Reveal int

const (
	RevealNone   Reveal = iota // ordinary in-game view
	RevealFinish               // win screen
	RevealBlast                // loss screen
)

// New builds a BoardView from the board's current statuses.
func New(b *board.Board, reveal Reveal) BoardView {
	var statuses [][]int
	switch reveal {
	case RevealFinish:
		statuses = b.FinishStatuses()
	case RevealBlast:
		statuses = b.BlastStatuses()
	default:
		statuses = b.Statuses()
	}

	cells := make([][]CellView, b.Height)
	for y := range statuses {
		cells[y] = make([]CellView, b.Width)
		for x, s := range statuses[y] {
			cells[y][x] = cellView(s)
		}
	}

	return BoardView{
		Width:          b.Width,
		Height:         b.Height,
		Cells:          cells,
		MinesRemaining: b.MinesRemaining(),
	}
}

// Cell builds the view of a single tile from its ordinary status.
func Cell(t *tile.Tile) CellView {
	return cellView(t.Status())
}

func cellView(status int) CellView {
	switch status {
	case tile.StatusCovered:
		return CellView{State: "hidden"}
	case tile.StatusDown:
		return CellView{State: "pressed"}
	case tile.StatusFlagged:
		return CellView{State: "flagged"}
	case tile.StatusMine:
		return CellView{State: "mine"}
	case tile.StatusBlast:
		return CellView{State: "blast"}
	case tile.StatusWrongFlag:
		return CellView{State: "wrong_flag"}
	case tile.StatusUnflagged:
		return CellView{State: "unflagged"}
	default:
		return CellView{State: "opened", Count: status}
	}
}
