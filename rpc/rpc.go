package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/minesweeper/logger"
	"github.com/wfunc/minesweeper/models"
	"github.com/wfunc/minesweeper/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server. Services are registered with the rpc
// package by the caller before Start.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// StatsService exposes record queries over net/rpc.
type StatsService struct {
	recordService *services.RecordService
}

func NewStatsService(rs *services.RecordService) *StatsService {
	return &StatsService{recordService: rs}
}

type PlayerStatsArgs struct {
	Player string
}

type PlayerStatsReply struct {
	Stats *models.PlayerStats
}

// GetPlayerStats follows the net/rpc signature: exported method, exported
// arguments, pointer reply, error return.
func (ss *StatsService) GetPlayerStats(args *PlayerStatsArgs, reply *PlayerStatsReply) error {
	stats, err := ss.recordService.PlayerStats(args.Player)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}

type RecentGamesArgs struct {
	Player string
	Limit  int
}

type RecentGamesReply struct {
	Games []models.GameRecord
}

func (ss *StatsService) GetRecentGames(args *RecentGamesArgs, reply *RecentGamesReply) error {
	games, err := ss.recordService.RecentGames(args.Player, args.Limit)
	if err != nil {
		return err
	}
	reply.Games = games
	return nil
}
