package server

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/rpc"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/minesweeper/board"
	"github.com/wfunc/minesweeper/broadcast"
	"github.com/wfunc/minesweeper/config"
	"github.com/wfunc/minesweeper/game"
	"github.com/wfunc/minesweeper/logger"
	"github.com/wfunc/minesweeper/monitor"
	"github.com/wfunc/minesweeper/network"
	"github.com/wfunc/minesweeper/persistence"
	minesweeper_rpc "github.com/wfunc/minesweeper/rpc"
	"github.com/wfunc/minesweeper/services"
	"github.com/wfunc/minesweeper/session"
	"github.com/wfunc/minesweeper/state"
	"github.com/wfunc/minesweeper/timer"
	"github.com/wfunc/minesweeper/viewmodel"
)

// Sessions idle longer than this are closed by the sweep.
const maxSessionIdle = 10 * time.Minute

// Clients must send something (a heartbeat at minimum) within twice this
// interval or the read times out.
const heartbeatInterval = 30 * time.Second

type GameServer struct {
	cfg            *config.Config
	upgrader       websocket.Upgrader
	gameManager    *game.Manager
	sessionManager *session.Manager
	recordService  *services.RecordService
	broadcaster    broadcast.Broadcaster
	rpcServer      *minesweeper_rpc.Server
	mon            *monitor.Monitor
	timers         *timer.TimerManager
	rng            *rand.Rand
	mutex          sync.Mutex
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database) *GameServer {
	s := &GameServer{
		cfg:            cfg,
		gameManager:    game.NewManager(),
		sessionManager: session.NewManager(),
		recordService:  services.NewRecordService(db),
		mon:            monitor.NewMonitor("minesweeper"),
		timers:         timer.NewTimerManager(),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // allow all origins
			},
		},
	}

	s.broadcaster = broadcast.NewGameBroadcaster(s.gameManager, s.sessionManager)

	rpcServer, err := minesweeper_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	statsService := minesweeper_rpc.NewStatsService(s.recordService)
	rpc.Register(statsService)

	// Sweep stale sessions once a minute.
	s.timers.AddTimer(time.Minute, time.Minute, s.sweepIdleSessions)

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	s.mon.StartServer(s.cfg.Server.MonitorAddress)

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	return http.ListenAndServe(s.cfg.Server.HTTPAddress, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.timers.Stop()
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	wsConn.SetHeartbeat(heartbeatInterval)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.mon.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.mon.DecOnlinePlayers()
		s.sessionManager.Remove(sess.GetID())
		s.leaveGame(sess)
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	sess.Touch()
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		// Touch above is all a heartbeat does.
	case network.MsgTypeCreateGame:
		s.handleCreateGame(sess, packet)
	case network.MsgTypeJoinGame:
		s.handleJoinGame(sess, packet)
	case network.MsgTypeLeaveGame:
		s.handleLeaveGame(sess, packet)
	case network.MsgTypePlayerAction:
		s.handleGameAction(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

// createGameRequest allows the client to override the configured board.
type createGameRequest struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Mines  int    `json:"mines"`
}

func (s *GameServer) handleCreateGame(sess *session.Session, packet *network.Packet) {
	// Creating a fresh game implies leaving the current one, otherwise the
	// old game never empties and its loop runs forever.
	s.leaveGame(sess)

	req := createGameRequest{
		Width:  s.cfg.Game.Width,
		Height: s.cfg.Game.Height,
		Mines:  s.cfg.Game.Mines,
	}
	if len(packet.Data) > 0 {
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			logger.Log.Warnf("Session %s sent a bad create request: %v", sess.GetID(), err)
			return
		}
	}
	if req.Width <= 0 || req.Height <= 0 || req.Mines < 0 || req.Mines >= req.Width*req.Height {
		logger.Log.Warnf("Session %s requested an invalid board %dx%d with %d mines",
			sess.GetID(), req.Width, req.Height, req.Mines)
		return
	}

	s.mutex.Lock()
	b := board.NewRandom(req.Width, req.Height, req.Mines, s.rng)
	s.mutex.Unlock()

	rules := state.Rules{
		EasyFlag: s.cfg.Game.EasyFlag,
		BFSOpen:  s.cfg.Game.BFSOpen,
	}
	gameID := uuid.New().String()
	owner := sess.GetID()

	g := s.gameManager.CreateGame(gameID, req.Name, b, rules, s.cfg.Game.MaxPlayers, s.broadcaster)
	g.SetActionObserver(s.mon.ObserveAction)
	g.SetResultHandler(func(id, outcome string, duration time.Duration, tilesOpened, flagsPlaced int) {
		err := s.recordService.SaveResult(id, owner, b.Width, b.Height, b.MineCount,
			outcome, duration, tilesOpened, flagsPlaced)
		if err != nil {
			logger.Log.Errorf("Failed to record game %s: %v", id, err)
		}
	})
	g.AddPlayer(sess)
	s.mon.SetActiveGames(s.gameManager.Count())

	logger.Log.Infof("Session %s created game %s (%dx%d, %d mines)",
		sess.GetID(), gameID, b.Width, b.Height, b.MineCount)

	resp := map[string]string{"game_id": gameID}
	data, _ := json.Marshal(resp)
	sess.Send(network.MsgTypeCreateGame, data)
	s.sendBoard(sess, g)
}

func (s *GameServer) handleJoinGame(sess *session.Session, packet *network.Packet) {
	var req map[string]string
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	gameID := req["game_id"]

	g, exists := s.gameManager.GetGame(gameID)
	if !exists {
		logger.Log.Warnf("Session %s tried to join unknown game %s", sess.GetID(), gameID)
		return
	}

	if g.AddPlayer(sess) {
		logger.Log.Infof("Session %s joined game %s", sess.GetID(), gameID)
		s.sendBoard(sess, g)
	} else {
		logger.Log.Infof("Session %s could not join full game %s", sess.GetID(), gameID)
	}
}

func (s *GameServer) handleLeaveGame(sess *session.Session, packet *network.Packet) {
	s.leaveGame(sess)
}

// leaveGame detaches the session from its game and removes the game once
// the last player is gone.
func (s *GameServer) leaveGame(sess *session.Session) {
	if sess.GameID == "" {
		return
	}
	g, exists := s.gameManager.GetGame(sess.GameID)
	if !exists {
		sess.GameID = ""
		return
	}
	g.RemovePlayer(sess.GetID())
	if len(g.GetSessions()) == 0 {
		s.gameManager.RemoveGame(g.ID)
		s.mon.SetActiveGames(s.gameManager.Count())
	}
}

func (s *GameServer) handleGameAction(sess *session.Session, packet *network.Packet) {
	if sess.GameID == "" {
		logger.Log.Warnf("Session %s sent a game action but is not in a game", sess.GetID())
		return
	}

	g, exists := s.gameManager.GetGame(sess.GameID)
	if !exists {
		logger.Log.Errorf("Game %s not found for session %s", sess.GameID, sess.GetID())
		return
	}

	if err := g.HandleAction(sess, packet.Data); err != nil {
		logger.Log.Errorf("Error handling action in game %s: %v", g.GetID(), err)
	}
}

// sendBoard pushes the current board view to one session.
func (s *GameServer) sendBoard(sess *session.Session, g *game.Game) {
	view := viewmodel.New(g.Board, viewmodel.RevealNone)
	data, err := json.Marshal(view)
	if err != nil {
		logger.Log.Errorf("Error marshalling board view: %v", err)
		return
	}
	sess.Send(network.MsgTypeBoardState, data)
}

func (s *GameServer) sweepIdleSessions() {
	for _, sess := range s.sessionManager.GetIdle(maxSessionIdle) {
		logger.Log.Infof("Closing idle session %s", sess.GetID())
		sess.Close()
	}
}
