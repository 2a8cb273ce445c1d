package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wfunc/minesweeper/logger"
	"github.com/wfunc/minesweeper/network"
	"github.com/wfunc/minesweeper/solver"
	"github.com/wfunc/minesweeper/tile"
	"github.com/wfunc/minesweeper/viewmodel"
)

// Action types accepted over MsgTypePlayerAction.
const (
	ActionOpen      = "open"
	ActionFlag      = "flag"
	ActionChord     = "chord"
	ActionHold      = "hold"
	ActionHoldChord = "hold_chord"
	ActionUnhold    = "unhold"
	ActionHint      = "hint"
	ActionRestart   = "restart"
)

// Action is a player action unmarshalled from a packet.
type Action struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// tileChange is one entry of a MsgTypeTilesChanged push.
type tileChange struct {
	X    int                `json:"x"`
	Y    int                `json:"y"`
	Cell viewmodel.CellView `json:"cell"`
}

type tilesChangedMsg struct {
	Tiles          []tileChange `json:"tiles"`
	MinesRemaining int          `json:"mines_remaining"`
}

// PlayingState is a game in progress. It owns the clock and translates
// player actions into tile operations; every operation runs to completion
// before the next packet is handled, so a flood fill is never observed
// half-applied.
type PlayingState struct {
	GameStateBase
	startedAt   time.Time
	elapsed     time.Duration
	lastPushed  int // whole seconds already broadcast
	tilesOpened int
	flagsPlaced int
}

func NewPlayingState(game GameContext) *PlayingState {
	return &PlayingState{
		GameStateBase: GameStateBase{
			ID:   "playing",
			Game: game,
		},
	}
}

// OnEnter starts the clock and announces the game.
func (s *PlayingState) OnEnter() {
	s.startedAt = time.Now()
	b := s.Game.GetBoard()
	logger.Log.Infof("Game %s started (%dx%d, %d mines)", s.Game.GetID(), b.Width, b.Height, b.MineCount)

	startMsg := map[string]int{
		"width":  b.Width,
		"height": b.Height,
		"mines":  b.MineCount,
	}
	data, _ := json.Marshal(startMsg)
	s.Game.Broadcast(network.MsgTypeGameStart, data)
}

func (s *PlayingState) OnExit() {
	logger.Log.Infof("Game %s left playing state after %v", s.Game.GetID(), s.elapsed)
}

// OnUpdate is driven by the game loop tick and pushes the elapsed clock
// once per whole second.
func (s *PlayingState) OnUpdate() {
	s.elapsed = time.Since(s.startedAt)
	if secs := int(s.elapsed / time.Second); secs > s.lastPushed {
		s.lastPushed = secs
		data, _ := json.Marshal(map[string]int{"seconds": secs})
		s.Game.Broadcast(network.MsgTypeElapsed, data)
	}
}

// HandleAction applies one player action to the board.
func (s *PlayingState) HandleAction(player Player, actionData []byte) error {
	var action Action
	if err := json.Unmarshal(actionData, &action); err != nil {
		return fmt.Errorf("failed to unmarshal action data: %w", err)
	}

	if action.Type == ActionHint {
		return s.handleHint()
	}

	b := s.Game.GetBoard()
	t := b.At(action.X, action.Y)
	if t == nil {
		logger.Log.Warnf("Game %s: action %q at (%d,%d) is off the board", s.Game.GetID(), action.Type, action.X, action.Y)
		return nil
	}

	rules := s.Game.GetRules()
	switch action.Type {
	case ActionOpen:
		s.applyReveal(action.Type, t.Open(rules.BFSOpen))
	case ActionChord:
		s.applyReveal(action.Type, t.Double(rules.BFSOpen))
	case ActionFlag:
		changed := t.Flag(rules.EasyFlag)
		s.flagsPlaced += changed.Size()
		s.Game.Observe(action.Type, changed.Size())
		s.pushChanged(changed)
	case ActionHold:
		t.LeftHold()
		s.pushBoard()
	case ActionHoldChord:
		t.DoubleHold()
		s.pushBoard()
	case ActionUnhold:
		// Release the tile and its neighbors so a chord press clears with
		// a single message.
		t.Unhold()
		for _, n := range t.Neighbors() {
			n.Unhold()
		}
		s.pushBoard()
	default:
		logger.Log.Warnf("Game %s: unknown action %q", s.Game.GetID(), action.Type)
	}
	return nil
}

// handleHint asks the single-point solver for a move and plays it.
func (s *PlayingState) handleHint() error {
	b := s.Game.GetBoard()
	move := solver.New(b).NextMove()
	if move == nil {
		logger.Log.Infof("Game %s: no hint available", s.Game.GetID())
		return nil
	}

	t := b.At(move.X, move.Y)
	switch move.Type {
	case solver.MoveFlag:
		changed := t.Flag(false)
		s.flagsPlaced += changed.Size()
		s.Game.Observe(ActionHint, changed.Size())
		s.pushChanged(changed)
	case solver.MoveOpen:
		s.applyReveal(ActionHint, t.Open(s.Game.GetRules().BFSOpen))
	}
	return nil
}

// applyReveal handles the outcome of any tile-opening operation: loss when
// a mine came open, win when the board is clear, otherwise an incremental
// tile push.
func (s *PlayingState) applyReveal(action string, changed tile.Set) {
	s.tilesOpened += changed.Size()
	s.Game.Observe(action, changed.Size())

	blasted := false
	changed.Each(func(t *tile.Tile) {
		if t.IsMine() {
			blasted = true
		}
	})

	if blasted {
		s.finish(OutcomeLost)
		return
	}
	if s.Game.GetBoard().CheckClear() {
		s.finish(OutcomeWon)
		return
	}
	s.pushChanged(changed)
}

func (s *PlayingState) finish(outcome Outcome) {
	s.elapsed = time.Since(s.startedAt)
	finished := NewFinishedState(s.Game, outcome, s.elapsed, s.tilesOpened, s.flagsPlaced)
	if err := s.Game.ChangeState(finished); err != nil {
		logger.Log.Errorf("Game %s: transition to finished failed: %v", s.Game.GetID(), err)
	}
}

func (s *PlayingState) pushChanged(changed tile.Set) {
	if changed.Size() == 0 {
		return
	}
	b := s.Game.GetBoard()
	msg := tilesChangedMsg{MinesRemaining: b.MinesRemaining()}
	changed.Each(func(t *tile.Tile) {
		msg.Tiles = append(msg.Tiles, tileChange{X: t.X, Y: t.Y, Cell: viewmodel.Cell(t)})
	})
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Errorf("Error marshalling tile changes: %v", err)
		return
	}
	s.Game.Broadcast(network.MsgTypeTilesChanged, data)
}

func (s *PlayingState) pushBoard() {
	view := viewmodel.New(s.Game.GetBoard(), viewmodel.RevealNone)
	data, err := json.Marshal(view)
	if err != nil {
		logger.Log.Errorf("Error marshalling board view: %v", err)
		return
	}
	s.Game.Broadcast(network.MsgTypeBoardState, data)
}
