package network

// Message IDs on the wire. 1xx are lobby operations, 2xx player input,
// 3xx server pushes.
const (
	MsgTypeHeartbeat = 1

	MsgTypeJoinGame   = 101
	MsgTypeLeaveGame  = 102
	MsgTypeCreateGame = 103

	MsgTypePlayerAction = 201

	MsgTypeBoardState   = 301
	MsgTypeTilesChanged = 302
	MsgTypeGameStart    = 303
	MsgTypeElapsed      = 304
	MsgTypeGameEnd      = 305
)
