package state

import (
	"encoding/json"
	"time"

	"github.com/wfunc/minesweeper/logger"
	"github.com/wfunc/minesweeper/network"
	"github.com/wfunc/minesweeper/viewmodel"
)

// Outcome is the terminal result of a game.
type Outcome string

const (
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

// FinishedState is a completed game. The board stays visible in its
// end-of-game reveal until a restart recovers it.
type FinishedState struct {
	GameStateBase
	Outcome     Outcome
	Duration    time.Duration
	TilesOpened int
	FlagsPlaced int
}

func NewFinishedState(game GameContext, outcome Outcome, duration time.Duration, tilesOpened, flagsPlaced int) *FinishedState {
	return &FinishedState{
		GameStateBase: GameStateBase{
			ID:   "finished",
			Game: game,
		},
		Outcome:     outcome,
		Duration:    duration,
		TilesOpened: tilesOpened,
		FlagsPlaced: flagsPlaced,
	}
}

// OnEnter broadcasts the reveal grid and reports the result upstream.
func (s *FinishedState) OnEnter() {
	logger.Log.Infof("Game %s finished: %s in %v", s.Game.GetID(), s.Outcome, s.Duration)

	reveal := viewmodel.RevealBlast
	if s.Outcome == OutcomeWon {
		reveal = viewmodel.RevealFinish
	}
	endMsg := struct {
		Outcome Outcome             `json:"outcome"`
		Seconds int                 `json:"seconds"`
		Board   viewmodel.BoardView `json:"board"`
	}{
		Outcome: s.Outcome,
		Seconds: int(s.Duration / time.Second),
		Board:   viewmodel.New(s.Game.GetBoard(), reveal),
	}
	data, err := json.Marshal(endMsg)
	if err != nil {
		logger.Log.Errorf("Error marshalling game end message: %v", err)
	} else {
		s.Game.Broadcast(network.MsgTypeGameEnd, data)
	}

	s.Game.ReportResult(string(s.Outcome), s.Duration, s.TilesOpened, s.FlagsPlaced)
}

// HandleAction only accepts a restart, which recovers the board for a new
// game on the same mine layout.
func (s *FinishedState) HandleAction(player Player, actionData []byte) error {
	var action Action
	if err := json.Unmarshal(actionData, &action); err != nil {
		return err
	}
	if action.Type != ActionRestart {
		logger.Log.Warnf("Game %s ignored action %q after finishing", s.Game.GetID(), action.Type)
		return nil
	}

	s.Game.GetBoard().Recover()
	return s.Game.ChangeState(NewReadyState(s.Game))
}
