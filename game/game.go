// game/game.go
package game

import (
	"sync"
	"time"

	"github.com/wfunc/minesweeper/board"
	"github.com/wfunc/minesweeper/session"
	"github.com/wfunc/minesweeper/state"
)

// Status is the coarse lifecycle of a game, mirrored from its state machine
// for cheap queries.
type Status int

const (
	StatusIdle Status = iota
	StatusReady
	StatusPlaying
	StatusFinished
)

// ActionObserver receives every applied action with its changed-tile count.
type ActionObserver func(action string, changed int)

// ResultHandler receives the result of a finished game.
type ResultHandler func(gameID, outcome string, duration time.Duration, tilesOpened, flagsPlaced int)

// Game is one minesweeper board being played by one or more sessions.
type Game struct {
	ID           string
	Name         string
	MaxPlayers   int
	Status       Status
	Board        *board.Board
	Rules        state.Rules
	Players      map[string]*session.Session // sessionID -> session
	StateMachine state.StateMachine
	CreatedAt    time.Time

	broadcaster Broadcaster
	onAction    ActionObserver
	onResult    ResultHandler
	statusMutex sync.RWMutex
	playerMutex sync.RWMutex
	actionMutex sync.Mutex // serializes actions with the tick loop
	ticker      *time.Ticker
	closeChan   chan bool
}

// NewGame creates a game over the given board and starts its update loop.
func NewGame(id, name string, b *board.Board, rules state.Rules, maxPlayers int, broadcaster Broadcaster) *Game {
	g := &Game{
		ID:          id,
		Name:        name,
		MaxPlayers:  maxPlayers,
		Status:      StatusIdle,
		Board:       b,
		Rules:       rules,
		Players:     make(map[string]*session.Session),
		CreatedAt:   time.Now(),
		closeChan:   make(chan bool),
		broadcaster: broadcaster,
	}

	// The state machine gets the game itself as its context.
	g.StateMachine = state.NewBaseStateMachine(state.NewReadyState(g))
	g.SetStatus(StatusReady)

	g.ticker = time.NewTicker(100 * time.Millisecond)
	go g.loop()

	return g
}

// SetActionObserver wires the metrics hook. Call before play starts.
func (g *Game) SetActionObserver(fn ActionObserver) {
	g.onAction = fn
}

// SetResultHandler wires the record hook. Call before play starts.
func (g *Game) SetResultHandler(fn ResultHandler) {
	g.onResult = fn
}

// --- state.GameContext implementation ---

func (g *Game) GetID() string {
	return g.ID
}

func (g *Game) GetBoard() *board.Board {
	return g.Board
}

func (g *Game) GetRules() state.Rules {
	return g.Rules
}

func (g *Game) GetMaxPlayers() int {
	return g.MaxPlayers
}

// GetPlayers returns a copy of the player map as state.Player values.
func (g *Game) GetPlayers() map[string]state.Player {
	g.playerMutex.RLock()
	defer g.playerMutex.RUnlock()

	players := make(map[string]state.Player)
	for k, v := range g.Players {
		players[k] = v
	}
	return players
}

// ChangeState drives the state machine and keeps Status in step.
func (g *Game) ChangeState(newState state.State) error {
	if err := g.StateMachine.ChangeState(newState); err != nil {
		return err
	}
	switch newState.GetID() {
	case "ready":
		g.SetStatus(StatusReady)
	case "playing":
		g.SetStatus(StatusPlaying)
	case "finished":
		g.SetStatus(StatusFinished)
	}
	return nil
}

// Broadcast sends a message to every session in the game.
func (g *Game) Broadcast(msgID uint16, data []byte) error {
	return g.broadcaster.BroadcastToGame(g.ID, msgID, data)
}

func (g *Game) Observe(action string, changed int) {
	if g.onAction != nil {
		g.onAction(action, changed)
	}
}

func (g *Game) ReportResult(outcome string, duration time.Duration, tilesOpened, flagsPlaced int) {
	if g.onResult != nil {
		g.onResult(g.ID, outcome, duration, tilesOpened, flagsPlaced)
	}
}

// --- player management ---

// AddPlayer adds a session to the game. Returns false when full.
func (g *Game) AddPlayer(s *session.Session) bool {
	g.playerMutex.Lock()
	defer g.playerMutex.Unlock()

	if len(g.Players) >= g.MaxPlayers {
		return false
	}

	g.Players[s.ID] = s
	s.GameID = g.ID
	return true
}

// RemovePlayer removes a session from the game.
func (g *Game) RemovePlayer(sessionID string) {
	g.playerMutex.Lock()
	defer g.playerMutex.Unlock()

	if player, exists := g.Players[sessionID]; exists {
		player.GameID = ""
		delete(g.Players, sessionID)
	}
}

// GetPlayer looks up a single session.
func (g *Game) GetPlayer(sessionID string) (*session.Session, bool) {
	g.playerMutex.RLock()
	defer g.playerMutex.RUnlock()

	player, exists := g.Players[sessionID]
	return player, exists
}

// GetSessions returns a slice of all sessions in the game (thread-safe).
func (g *Game) GetSessions() []*session.Session {
	g.playerMutex.RLock()
	defer g.playerMutex.RUnlock()

	sessions := make([]*session.Session, 0, len(g.Players))
	for _, s := range g.Players {
		sessions = append(sessions, s)
	}
	return sessions
}

func (g *Game) SetStatus(status Status) {
	g.statusMutex.Lock()
	defer g.statusMutex.Unlock()
	g.Status = status
}

func (g *Game) GetStatus() Status {
	g.statusMutex.RLock()
	defer g.statusMutex.RUnlock()
	return g.Status
}

// loop drives the state machine clock.
func (g *Game) loop() {
	for {
		select {
		case <-g.ticker.C:
			g.Update()
		case <-g.closeChan:
			g.ticker.Stop()
			return
		}
	}
}

// Update is called by the loop and forwards the tick to the current state.
func (g *Game) Update() {
	g.actionMutex.Lock()
	defer g.actionMutex.Unlock()

	if g.StateMachine != nil {
		if current := g.StateMachine.GetCurrentState(); current != nil {
			current.OnUpdate()
		}
	}
}

// HandleAction applies one player action under the game's action mutex.
// Sessions read packets on their own goroutines, so without this two
// players' flood fills could interleave on the same tiles and a game could
// finish twice.
func (g *Game) HandleAction(player state.Player, actionData []byte) error {
	g.actionMutex.Lock()
	defer g.actionMutex.Unlock()

	current := g.StateMachine.GetCurrentState()
	if current == nil {
		return nil
	}
	return current.HandleAction(player, actionData)
}

// Close stops the game loop.
func (g *Game) Close() {
	close(g.closeChan)
}

// --- game manager ---

// Manager tracks every live game.
type Manager struct {
	games map[string]*Game
	mutex sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		games: make(map[string]*Game),
	}
}

// CreateGame builds a game and registers it.
func (m *Manager) CreateGame(id, name string, b *board.Board, rules state.Rules, maxPlayers int, broadcaster Broadcaster) *Game {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	g := NewGame(id, name, b, rules, maxPlayers, broadcaster)
	m.games[id] = g
	return g
}

// RemoveGame closes and forgets a game.
func (m *Manager) RemoveGame(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if g, exists := m.games[id]; exists {
		g.Close()
		delete(m.games, id)
	}
}

// GetGame looks up a game by ID.
func (m *Manager) GetGame(id string) (*Game, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	g, exists := m.games[id]
	return g, exists
}

// Count returns the number of live games.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.games)
}

// FindJoinable returns a game with room for another player that has not
// finished, or nil.
func (m *Manager) FindJoinable() *Game {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, g := range m.games {
		if len(g.Players) < g.MaxPlayers && g.GetStatus() != StatusFinished {
			return g
		}
	}
	return nil
}
