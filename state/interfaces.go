// state/interfaces.go
package state

import (
	"time"

	"github.com/wfunc/minesweeper/board"
)

// Player defines the minimal interface for a player entity that a state needs to interact with.
type Player interface {
	GetID() string
}

// Rules are the gameplay toggles a state consults when applying actions.
type Rules struct {
	EasyFlag bool // open-tile flag runs the all-covered-neighbors deduction
	BFSOpen  bool // flood fill also cascades through satisfied number tiles
}

// GameContext defines the interface a Game must implement to be driven by the
// state machine. This breaks the import cycle between game and state.
type GameContext interface {
	GetID() string
	GetBoard() *board.Board
	GetRules() Rules
	GetPlayers() map[string]Player
	GetMaxPlayers() int
	ChangeState(newState State) error
	Broadcast(msgID uint16, data []byte) error

	// Observe reports an applied action and its changed-tile count, for
	// metrics; ReportResult surfaces a finished game to the record layer.
	Observe(action string, changed int)
	ReportResult(outcome string, duration time.Duration, tilesOpened, flagsPlaced int)
}
