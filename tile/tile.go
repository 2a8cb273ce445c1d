package tile

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// Display status codes. 0-8 are open number tiles and come straight from
// Value; the named codes cover every other way a tile can render. The
// negative codes only appear in the end-of-game variants.
const (
	StatusMine      = -1 // value sentinel and loss-reveal code
	StatusBlast     = -2 // the mine that was actually opened
	StatusWrongFlag = -3 // flagged tile that was not a mine
	StatusUnflagged = -4 // win-reveal code for mines the player never flagged
	StatusCovered   = 9
	StatusDown      = 10
	StatusFlagged   = 11
)

// Set is the changed-tile set returned by the mutating operations.
type Set = mapset.Set[*Tile]

// NewSet returns an empty tile set.
func NewSet() Set {
	return mapset.New[*Tile]()
}

// Tile is the minimum unit of the board. X/Y are its identity and never
// change; Value is fixed by board construction (StatusMine for mines,
// otherwise the count of adjacent mines); everything else is gameplay state.
type Tile struct {
	X, Y          int
	Value         int
	Flagged       bool
	Covered       bool
	Down          bool
	NeighborFlags int // cached count of flagged neighbors

	neighbors []*Tile
}

// New creates a covered tile at (x, y).
func New(x, y int) *Tile {
	return &Tile{X: x, Y: y, Covered: true}
}

func (t *Tile) String() string {
	return fmt.Sprintf("Tile[v: %d]: (x: %d, y: %d)", t.Value, t.X, t.Y)
}

// SetNeighbors wires the adjacency set. The board calls this exactly once,
// before any gameplay operation is reachable.
func (t *Tile) SetNeighbors(neighbors []*Tile) {
	t.neighbors = neighbors
}

// Neighbors returns the fixed adjacency set.
func (t *Tile) Neighbors() []*Tile {
	return t.neighbors
}

// SetMine turns the tile into a mine and bumps the value of every non-mine
// neighbor, so board construction only has to place mines.
func (t *Tile) SetMine() {
	t.Value = StatusMine
	for _, n := range t.neighbors {
		if !n.IsMine() {
			n.Value++
		}
	}
}

// IsMine reports whether the tile holds a mine.
func (t *Tile) IsMine() bool {
	return t.Value == StatusMine
}

// Recover resets the tile to its initial covered state for a new game on the
// same grid. Value is left alone; re-running the mine layout is the board's
// job when it changes.
func (t *Tile) Recover() {
	t.Flagged = false
	t.Covered = true
	t.Down = false
	t.NeighborFlags = 0
}

// Status derives the display code from the canonical state. Flagged wins
// over pressed, pressed over covered; an open tile shows its value.
func (t *Tile) Status() int {
	switch {
	case t.Flagged:
		return StatusFlagged
	case t.Down:
		return StatusDown
	case t.Covered:
		return StatusCovered
	default:
		return t.Value
	}
}

// FinishStatus is the win-screen variant: mines the player never flagged
// show as unflagged instead of taking credit for them.
func (t *Tile) FinishStatus() int {
	if !t.Flagged && t.IsMine() {
		return StatusUnflagged
	}
	return t.Status()
}

// BlastStatus is the loss-screen variant: wrong flags are called out, the
// opened mine shows as the blast, and every other unflagged mine is shown.
func (t *Tile) BlastStatus() int {
	switch {
	case t.Flagged && !t.IsMine():
		return StatusWrongFlag
	case !t.Covered && t.IsMine():
		return StatusBlast
	case !t.Flagged && t.IsMine():
		return StatusMine
	default:
		return t.Status()
	}
}

// LeftHold arms the pressed visual. Flagged tiles never show as pressed.
func (t *Tile) LeftHold() {
	if t.Covered && !t.Flagged {
		t.Down = true
	}
}

// DoubleHold arms pressing on the tile and all its neighbors, the visual
// precursor to a chord. Flagged neighbors stay up via LeftHold's own guard.
func (t *Tile) DoubleHold() {
	t.LeftHold()
	for _, n := range t.neighbors {
		n.LeftHold()
	}
}

// Unhold clears the pressed visual unless the tile is flagged.
func (t *Tile) Unhold() {
	if !t.Flagged {
		t.Down = false
	}
}

// Flag toggles the flag on a covered tile and keeps every neighbor's
// NeighborFlags counter in step. On an open tile with easyFlag set it runs
// the deduction instead: when the tile's value equals its covered-neighbor
// count, all of those neighbors must be mines, so any still unflagged get
// flagged. The returned set holds only tiles whose state actually changed.
func (t *Tile) Flag(easyFlag bool) Set {
	changed := NewSet()
	switch {
	case t.Flagged:
		t.Flagged = false
		for _, n := range t.neighbors {
			n.NeighborFlags--
		}
		changed.Put(t)
	case t.Covered:
		t.Flagged = true
		for _, n := range t.neighbors {
			n.NeighborFlags++
		}
		changed.Put(t)
	case easyFlag:
		covered := 0
		for _, n := range t.neighbors {
			if n.Covered {
				covered++
			}
		}
		if t.Value != covered {
			return changed
		}
		for _, n := range t.neighbors {
			if !n.Covered || n.Flagged {
				continue
			}
			n.Flagged = true
			for _, nn := range n.neighbors {
				nn.NeighborFlags++
			}
			changed.Put(n)
		}
	}
	return changed
}
