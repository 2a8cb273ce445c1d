package state

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/wfunc/minesweeper/board"
	"github.com/wfunc/minesweeper/logger"
	"github.com/wfunc/minesweeper/network"
)

func TestMain(m *testing.M) {
	logger.InitDevelopment()
	os.Exit(m.Run())
}

// fakePlayer satisfies the Player interface.
type fakePlayer struct{ id string }

func (p *fakePlayer) GetID() string { return p.id }

type broadcastCall struct {
	MsgID uint16
	Data  []byte
}

type resultCall struct {
	Outcome     string
	Duration    time.Duration
	TilesOpened int
	FlagsPlaced int
}

// fakeGame is a test double for the GameContext interface.
type fakeGame struct {
	id         string
	board      *board.Board
	rules      Rules
	machine    StateMachine
	broadcasts []broadcastCall
	results    []resultCall
	observed   int
}

func (g *fakeGame) GetID() string                  { return g.id }
func (g *fakeGame) GetBoard() *board.Board         { return g.board }
func (g *fakeGame) GetRules() Rules                { return g.rules }
func (g *fakeGame) GetPlayers() map[string]Player  { return nil }
func (g *fakeGame) GetMaxPlayers() int             { return 1 }
func (g *fakeGame) ChangeState(s State) error      { return g.machine.ChangeState(s) }
func (g *fakeGame) Broadcast(msgID uint16, data []byte) error {
	g.broadcasts = append(g.broadcasts, broadcastCall{MsgID: msgID, Data: data})
	return nil
}
func (g *fakeGame) Observe(action string, changed int) { g.observed++ }
func (g *fakeGame) ReportResult(outcome string, duration time.Duration, tilesOpened, flagsPlaced int) {
	g.results = append(g.results, resultCall{outcome, duration, tilesOpened, flagsPlaced})
}

func (g *fakeGame) lastMsg(msgID uint16) []byte {
	var data []byte
	for _, b := range g.broadcasts {
		if b.MsgID == msgID {
			data = b.Data
		}
	}
	return data
}

// newFakeGame builds a game over the given layout, starting in ready state.
func newFakeGame(width, height int, mines []board.Coord, rules Rules) *fakeGame {
	g := &fakeGame{
		id:    "test_game",
		board: board.NewFromLayout(width, height, mines),
		rules: rules,
	}
	g.machine = NewBaseStateMachine(NewReadyState(g))
	return g
}

func action(t *testing.T, g *fakeGame, a Action) {
	t.Helper()
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal action: %v", err)
	}
	if err := g.machine.GetCurrentState().HandleAction(&fakePlayer{id: "p1"}, data); err != nil {
		t.Fatalf("HandleAction(%+v) returned error: %v", a, err)
	}
}

func TestFirstActionStartsGame(t *testing.T) {
	g := newFakeGame(3, 3, []board.Coord{{X: 1, Y: 1}}, Rules{})

	if g.machine.GetCurrentState().GetID() != "ready" {
		t.Fatal("game should start in ready state")
	}

	action(t, g, Action{Type: ActionOpen, X: 0, Y: 0})

	if g.machine.GetCurrentState().GetID() != "playing" {
		t.Errorf("state after first open = %s, want playing", g.machine.GetCurrentState().GetID())
	}
	if g.lastMsg(network.MsgTypeGameStart) == nil {
		t.Error("game start should be broadcast")
	}
	if g.lastMsg(network.MsgTypeTilesChanged) == nil {
		t.Error("the opened tile should be broadcast")
	}
}

func TestOpeningMineLosesGame(t *testing.T) {
	g := newFakeGame(3, 3, []board.Coord{{X: 1, Y: 1}}, Rules{})

	action(t, g, Action{Type: ActionOpen, X: 1, Y: 1})

	if g.machine.GetCurrentState().GetID() != "finished" {
		t.Fatalf("state = %s, want finished", g.machine.GetCurrentState().GetID())
	}
	if len(g.results) != 1 || g.results[0].Outcome != string(OutcomeLost) {
		t.Fatalf("results = %+v, want one lost result", g.results)
	}

	var end struct {
		Outcome string `json:"outcome"`
	}
	data := g.lastMsg(network.MsgTypeGameEnd)
	if data == nil {
		t.Fatal("game end should be broadcast")
	}
	if err := json.Unmarshal(data, &end); err != nil {
		t.Fatalf("unmarshal game end: %v", err)
	}
	if end.Outcome != string(OutcomeLost) {
		t.Errorf("broadcast outcome = %s, want lost", end.Outcome)
	}
}

func TestClearingBoardWinsGame(t *testing.T) {
	// Single mine in the corner of a 3x3: opening the far zero region
	// reveals everything else in one flood fill.
	g := newFakeGame(3, 3, []board.Coord{{X: 0, Y: 0}}, Rules{})

	action(t, g, Action{Type: ActionOpen, X: 2, Y: 2})

	if g.machine.GetCurrentState().GetID() != "finished" {
		t.Fatalf("state = %s, want finished", g.machine.GetCurrentState().GetID())
	}
	if len(g.results) != 1 || g.results[0].Outcome != string(OutcomeWon) {
		t.Fatalf("results = %+v, want one won result", g.results)
	}
	// The clock runs on wall time from the first action, not on ticks.
	if g.results[0].Duration <= 0 {
		t.Errorf("duration = %v, want > 0", g.results[0].Duration)
	}
}

func TestFlagDoesNotFinishGame(t *testing.T) {
	g := newFakeGame(3, 3, []board.Coord{{X: 1, Y: 1}}, Rules{})

	action(t, g, Action{Type: ActionFlag, X: 1, Y: 1})

	if g.machine.GetCurrentState().GetID() != "playing" {
		t.Errorf("state = %s, want playing", g.machine.GetCurrentState().GetID())
	}
	if !g.board.At(1, 1).Flagged {
		t.Error("flag action should flag the tile")
	}
}

func TestChordAction(t *testing.T) {
	g := newFakeGame(3, 3, []board.Coord{{X: 1, Y: 1}}, Rules{})

	action(t, g, Action{Type: ActionFlag, X: 1, Y: 1})
	action(t, g, Action{Type: ActionOpen, X: 0, Y: 0})
	action(t, g, Action{Type: ActionChord, X: 0, Y: 0})

	if g.board.At(1, 0).Covered || g.board.At(0, 1).Covered {
		t.Error("chord should open the unflagged neighbors of the satisfied corner")
	}
	if !g.board.At(1, 1).Covered {
		t.Error("the flagged mine must stay covered")
	}
}

func TestOffBoardActionIsIgnored(t *testing.T) {
	g := newFakeGame(3, 3, []board.Coord{{X: 1, Y: 1}}, Rules{})

	action(t, g, Action{Type: ActionOpen, X: 0, Y: 0})
	action(t, g, Action{Type: ActionOpen, X: 99, Y: 99})

	if g.machine.GetCurrentState().GetID() != "playing" {
		t.Errorf("off-board action must not disturb the game state")
	}
}

func TestHoldActions(t *testing.T) {
	g := newFakeGame(3, 3, []board.Coord{{X: 1, Y: 1}}, Rules{})
	action(t, g, Action{Type: ActionHold, X: 0, Y: 0})

	if !g.board.At(0, 0).Down {
		t.Error("hold should press the tile")
	}

	action(t, g, Action{Type: ActionUnhold, X: 0, Y: 0})
	if g.board.At(0, 0).Down {
		t.Error("unhold should release the tile")
	}

	action(t, g, Action{Type: ActionHoldChord, X: 0, Y: 0})
	if !g.board.At(0, 0).Down || !g.board.At(1, 0).Down {
		t.Error("hold_chord should press the tile and its neighbors")
	}

	action(t, g, Action{Type: ActionUnhold, X: 0, Y: 0})
	if g.board.At(1, 0).Down {
		t.Error("unhold should release the neighbors of a chord press")
	}
}

func TestHintAction(t *testing.T) {
	// Open the corner of a 3x3 with a center mine: its value 1 with one
	// flagged neighbor is not yet deducible, but after flagging the mine
	// the solver can chord-open a safe tile.
	g := newFakeGame(3, 3, []board.Coord{{X: 1, Y: 1}}, Rules{})

	action(t, g, Action{Type: ActionOpen, X: 0, Y: 0})
	action(t, g, Action{Type: ActionFlag, X: 1, Y: 1})
	action(t, g, Action{Type: ActionHint})

	opened := 0
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if !g.board.At(x, y).Covered {
				opened++
			}
		}
	}
	if opened < 2 {
		t.Errorf("hint should have opened a safe tile, only %d open", opened)
	}
}

func TestRestartRecoversBoard(t *testing.T) {
	g := newFakeGame(3, 3, []board.Coord{{X: 1, Y: 1}}, Rules{})

	action(t, g, Action{Type: ActionOpen, X: 1, Y: 1}) // lose
	action(t, g, Action{Type: ActionRestart})

	if g.machine.GetCurrentState().GetID() != "ready" {
		t.Fatalf("state after restart = %s, want ready", g.machine.GetCurrentState().GetID())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if !g.board.At(x, y).Covered {
				t.Errorf("tile (%d,%d) should be covered after restart", x, y)
			}
		}
	}
	if !g.board.At(1, 1).IsMine() {
		t.Error("mine layout must survive restart")
	}
}

func TestEasyFlagRule(t *testing.T) {
	// Mines on the four corners of the top 3x3 region of a 3x4 board.
	// After opening the center and the four edge tiles around it, the
	// center's value (4) equals its covered-neighbor count, so a flag
	// action on it deduces flags for all four corners.
	mines := []board.Coord{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 2}}
	g := newFakeGame(3, 4, mines, Rules{EasyFlag: true})

	action(t, g, Action{Type: ActionOpen, X: 1, Y: 1})
	action(t, g, Action{Type: ActionOpen, X: 1, Y: 0})
	action(t, g, Action{Type: ActionOpen, X: 0, Y: 1})
	action(t, g, Action{Type: ActionOpen, X: 2, Y: 1})
	action(t, g, Action{Type: ActionOpen, X: 1, Y: 2})

	action(t, g, Action{Type: ActionFlag, X: 1, Y: 1})

	for _, c := range mines {
		if !g.board.At(c.X, c.Y).Flagged {
			t.Errorf("corner (%d,%d) should be flagged by the deduction", c.X, c.Y)
		}
	}
	if g.machine.GetCurrentState().GetID() != "playing" {
		t.Errorf("state = %s, want playing (bottom row still covered)", g.machine.GetCurrentState().GetID())
	}
}
