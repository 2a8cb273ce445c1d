package board

import (
	"math/rand"

	"github.com/wfunc/minesweeper/tile"
)

// Coord addresses a tile on the board.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Board owns the grid of tiles. The neighbor graph is wired once in the
// constructor, before any gameplay operation is reachable, and never
// mutated afterwards.
type Board struct {
	Width     int
	Height    int
	MineCount int

	tiles [][]*tile.Tile // indexed [y][x]
	mines []Coord
}

// New creates an empty board with the neighbor graph wired and no mines.
func New(width, height int) *Board {
	tiles := make([][]*tile.Tile, height)
	for y := 0; y < height; y++ {
		tiles[y] = make([]*tile.Tile, width)
		for x := 0; x < width; x++ {
			tiles[y][x] = tile.New(x, y)
		}
	}

	b := &Board{
		Width:  width,
		Height: height,
		tiles:  tiles,
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var neighbors []*tile.Tile
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if n := b.At(x+dx, y+dy); n != nil {
						neighbors = append(neighbors, n)
					}
				}
			}
			tiles[y][x].SetNeighbors(neighbors)
		}
	}

	return b
}

// NewRandom creates a board with mineCount mines placed uniformly at random.
func NewRandom(width, height, mineCount int, rng *rand.Rand) *Board {
	b := New(width, height)

	placed := 0
	for placed < mineCount {
		x := rng.Intn(width)
		y := rng.Intn(height)
		if !b.tiles[y][x].IsMine() {
			b.placeMine(Coord{X: x, Y: y})
			placed++
		}
	}

	return b
}

// NewFromLayout creates a board with a fixed mine layout, mostly for tests
// and replays.
func NewFromLayout(width, height int, mines []Coord) *Board {
	b := New(width, height)
	b.PlaceMines(mines)
	return b
}

// PlaceMines applies a mine layout. Coordinates already holding a mine are
// skipped so layouts are idempotent.
func (b *Board) PlaceMines(mines []Coord) {
	for _, c := range mines {
		if t := b.At(c.X, c.Y); t != nil && !t.IsMine() {
			b.placeMine(c)
		}
	}
}

func (b *Board) placeMine(c Coord) {
	b.tiles[c.Y][c.X].SetMine()
	b.mines = append(b.mines, c)
	b.MineCount++
}

// At returns the tile at (x, y), or nil when out of range.
func (b *Board) At(x, y int) *tile.Tile {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return nil
	}
	return b.tiles[y][x]
}

// Each visits every tile in row order.
func (b *Board) Each(fn func(t *tile.Tile)) {
	for _, row := range b.tiles {
		for _, t := range row {
			fn(t)
		}
	}
}

// Recover resets every tile to its initial covered state, keeping the mine
// layout, for a fresh game on the same grid.
func (b *Board) Recover() {
	b.Each(func(t *tile.Tile) {
		t.Recover()
	})
}

// CheckClear reports whether every non-mine tile is open, the win condition.
func (b *Board) CheckClear() bool {
	clear := true
	b.Each(func(t *tile.Tile) {
		if !t.IsMine() && t.Covered {
			clear = false
		}
	})
	return clear
}

// FlagCount returns the number of flagged tiles.
func (b *Board) FlagCount() int {
	count := 0
	b.Each(func(t *tile.Tile) {
		if t.Flagged {
			count++
		}
	})
	return count
}

// MinesRemaining is the counter the UI shows: mines minus placed flags. It
// can go negative when the player over-flags.
func (b *Board) MinesRemaining() int {
	return b.MineCount - b.FlagCount()
}

// Blasted reports whether a mine has been opened.
func (b *Board) Blasted() bool {
	blasted := false
	b.Each(func(t *tile.Tile) {
		if t.IsMine() && !t.Covered {
			blasted = true
		}
	})
	return blasted
}

// Statuses snapshots the display code of every tile, indexed [y][x].
func (b *Board) Statuses() [][]int {
	return b.snapshot((*tile.Tile).Status)
}

// FinishStatuses snapshots the win-reveal variant.
func (b *Board) FinishStatuses() [][]int {
	return b.snapshot((*tile.Tile).FinishStatus)
}

// BlastStatuses snapshots the loss-reveal variant.
func (b *Board) BlastStatuses() [][]int {
	return b.snapshot((*tile.Tile).BlastStatus)
}

func (b *Board) snapshot(status func(*tile.Tile) int) [][]int {
	grid := make([][]int, b.Height)
	for y := 0; y < b.Height; y++ {
		grid[y] = make([]int, b.Width)
		for x := 0; x < b.Width; x++ {
			grid[y][x] = status(b.tiles[y][x])
		}
	}
	return grid
}
