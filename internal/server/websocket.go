// Package server exposes the game application service over a WebSocket JSON
// gateway. Each connection owns one match; drained domain events are
// forwarded to the client for rendering and animation.
package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/shishihs/insurance-self-game-sub010/internal/config"
	"github.com/shishihs/insurance-self-game-sub010/internal/game"
	"github.com/shishihs/insurance-self-game-sub010/internal/repository"
)

// Server is the WebSocket gateway.
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	results  *repository.ResultRepository // nil disables persistence
	recorder *game.ReplayRecorder         // nil disables replay recording
	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

// New creates a gateway. results and recorder are optional.
func New(cfg *config.Config, results *repository.ResultRepository, recorder *game.ReplayRecorder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		results:  results,
		recorder: recorder,
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			allowed := cfg.Server.AllowedOrigin
			return allowed == "" || r.Header.Get("Origin") == allowed
		},
	}
	return s
}

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.httpSrv = &http.Server{
		Addr:    s.cfg.Server.Address,
		Handler: mux,
	}

	s.logger.Info("starting WebSocket server", zap.String("address", s.cfg.Server.Address))
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// serveWS upgrades the connection and runs one session on it.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sess, err := s.newSession(conn)
	if err != nil {
		s.logger.Error("failed to create session", zap.Error(err))
		conn.Close()
		return
	}

	go sess.writePump()
	go sess.readPump()
}
