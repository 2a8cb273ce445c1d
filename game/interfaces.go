package game

// Broadcaster defines the interface for broadcasting messages to a game.
// This is defined here to break the import cycle between game and broadcast.
type Broadcaster interface {
	BroadcastToGame(gameID string, msgID uint16, data []byte) error
}
