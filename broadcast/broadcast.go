// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/minesweeper/game"
	"github.com/wfunc/minesweeper/session"
)

var (
	ErrGameNotFound = errors.New("game not found")
)

// Broadcaster fans messages out to connected sessions.
type Broadcaster interface {
	BroadcastToGame(gameID string, msgID uint16, data []byte) error
	BroadcastToAll(msgID uint16, data []byte) error
}

// GameBroadcaster pushes to the sessions of a specific game.
type GameBroadcaster struct {
	gameManager    *game.Manager
	sessionManager *session.Manager
}

func NewGameBroadcaster(gameManager *game.Manager, sessionManager *session.Manager) *GameBroadcaster {
	return &GameBroadcaster{
		gameManager:    gameManager,
		sessionManager: sessionManager,
	}
}

func (b *GameBroadcaster) BroadcastToGame(gameID string, msgID uint16, data []byte) error {
	g, exists := b.gameManager.GetGame(gameID)
	if !exists {
		return ErrGameNotFound
	}

	// Get a thread-safe copy of the sessions.
	for _, s := range g.GetSessions() {
		if err := s.Send(msgID, data); err != nil {
			// A failed send is the reader loop's problem to clean up.
			continue
		}
	}

	return nil
}

func (b *GameBroadcaster) BroadcastToAll(msgID uint16, data []byte) error {
	for _, s := range b.sessionManager.All() {
		if err := s.Send(msgID, data); err != nil {
			continue
		}
	}
	return nil
}
