package state

import (
	"encoding/json"

	"github.com/wfunc/minesweeper/logger"
	"github.com/wfunc/minesweeper/network"
	"github.com/wfunc/minesweeper/viewmodel"
)

// ReadyState is a game waiting for its first move. Any gameplay action
// starts the clock and is replayed against the playing state.
type ReadyState struct {
	GameStateBase
}

func NewReadyState(game GameContext) *ReadyState {
	return &ReadyState{
		GameStateBase: GameStateBase{
			ID:   "ready",
			Game: game,
		},
	}
}

// OnEnter pushes the fresh covered board so clients can draw it.
func (s *ReadyState) OnEnter() {
	view := viewmodel.New(s.Game.GetBoard(), viewmodel.RevealNone)
	data, err := json.Marshal(view)
	if err != nil {
		logger.Log.Errorf("Error marshalling board view for game %s: %v", s.Game.GetID(), err)
		return
	}
	s.Game.Broadcast(network.MsgTypeBoardState, data)
}

// HandleAction starts the game on the first gameplay action and forwards it.
func (s *ReadyState) HandleAction(player Player, actionData []byte) error {
	var action Action
	if err := json.Unmarshal(actionData, &action); err != nil {
		return err
	}
	switch action.Type {
	case ActionOpen, ActionFlag, ActionChord, ActionHold, ActionHoldChord, ActionUnhold, ActionHint:
		playing := NewPlayingState(s.Game)
		if err := s.Game.ChangeState(playing); err != nil {
			return err
		}
		return playing.HandleAction(player, actionData)
	default:
		logger.Log.Warnf("Game %s ignored action %q while ready", s.Game.GetID(), action.Type)
		return nil
	}
}
