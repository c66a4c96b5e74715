package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shishihs/insurance-self-game-sub010/internal/game"
	"github.com/shishihs/insurance-self-game-sub010/internal/repository"
)

const resultSaveTimeout = 5 * time.Second

// session drives one match over one WebSocket connection.
type session struct {
	server        *Server
	conn          *websocket.Conn
	send          chan []byte
	svc           *game.GameService
	authenticated bool
	finished      bool // terminal state already persisted
	logger        *zap.Logger
}

func (s *Server) newSession(conn *websocket.Conn) (*session, error) {
	match, err := game.NewGame(s.cfg.Game.StartingVitality, s.cfg.Game.MaxVitality)
	if err != nil {
		return nil, err
	}
	svc := game.NewGameService(match, game.NewEventBus(), s.logger)

	return &session{
		server:        s,
		conn:          conn,
		send:          make(chan []byte, 256),
		svc:           svc,
		authenticated: s.cfg.Auth.AdminPasswordHash == "",
		logger:        s.logger.With(zap.String("game_id", match.ID())),
	}, nil
}

func (sess *session) readPump() {
	defer func() {
		close(sess.send)
		sess.conn.Close()
	}()

	for {
		_, message, err := sess.conn.ReadMessage()
		if err != nil {
			return
		}

		var req Request
		if err := json.Unmarshal(message, &req); err != nil {
			sess.logger.Warn("malformed request", zap.Error(err))
			sess.reply(Response{Type: "error", Error: "malformed request"})
			continue
		}

		sess.reply(sess.handle(req))
	}
}

func (sess *session) writePump() {
	defer sess.conn.Close()

	for message := range sess.send {
		if err := sess.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (sess *session) reply(resp Response) {
	payload, err := json.Marshal(resp)
	if err != nil {
		sess.logger.Error("failed to marshal response", zap.Error(err))
		return
	}
	select {
	case sess.send <- payload:
	default:
		sess.logger.Warn("send buffer full, dropping response")
	}
}

// handle dispatches one request to the application service.
func (sess *session) handle(req Request) Response {
	if req.Action == ActionAuth {
		return sess.handleAuth(req)
	}
	if !sess.authenticated {
		return Response{Type: "error", Error: "not authenticated"}
	}

	var err error
	switch req.Action {
	case ActionStartGame:
		if err = sess.svc.StartGame(); err == nil && sess.server.recorder != nil {
			sess.server.recorder.StartRecording(sess.svc.Game().ID())
		}
	case ActionStartChallenge:
		err = sess.withCard(req, func(card game.Card) error {
			_, startErr := sess.svc.StartChallenge(card)
			return startErr
		})
	case ActionSelectCard:
		err = sess.withCard(req, sess.svc.SelectCardForChallenge)
	case ActionDeselectCard:
		err = sess.withCard(req, sess.svc.DeselectCardForChallenge)
	case ActionResolveChallenge:
		_, err = sess.svc.ResolveChallenge()
	case ActionActivateInsurance:
		err = sess.withCard(req, func(card game.Card) error {
			_, actErr := sess.svc.ActivateInsurance(card)
			return actErr
		})
	case ActionNextTurn:
		err = sess.svc.NextTurn()
	case ActionGetState:
		// state-only response below
	default:
		return Response{Type: "error", Error: "unknown action: " + req.Action}
	}
	if err != nil {
		return errorResponse(err)
	}

	snapshot := sess.svc.Snapshot()
	events := sess.svc.DomainEvents()
	sess.svc.ClearDomainEvents()

	sess.afterAction(&snapshot)

	return Response{
		Type:   "state",
		State:  &snapshot,
		Events: wrapEvents(events),
	}
}

func (sess *session) handleAuth(req Request) Response {
	hash := sess.server.cfg.Auth.AdminPasswordHash
	if hash == "" {
		sess.authenticated = true
		return Response{Type: "auth_ok"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		sess.logger.Warn("authentication failed")
		return Response{Type: "error", Error: "invalid password"}
	}
	sess.authenticated = true
	return Response{Type: "auth_ok"}
}

func (sess *session) withCard(req Request, fn func(game.Card) error) error {
	card, err := req.Card.toCard()
	if err != nil {
		return err
	}
	return fn(card)
}

// afterAction records replay state and, on a terminal transition, persists
// the match result and saves the replay.
func (sess *session) afterAction(snapshot *game.Snapshot) {
	if sess.server.recorder != nil && snapshot.Status == game.StatusInProgress {
		sess.server.recorder.RecordState(snapshot.GameID, snapshot)
	}

	terminal := snapshot.Status == game.StatusCompleted || snapshot.Status == game.StatusGameOver
	if !terminal || sess.finished {
		return
	}
	sess.finished = true

	if sess.server.recorder != nil {
		sess.server.recorder.RecordState(snapshot.GameID, snapshot)
		if err := sess.server.recorder.SaveReplay(snapshot.GameID); err != nil {
			sess.logger.Warn("failed to save replay", zap.Error(err))
		}
	}

	if sess.server.results != nil {
		ctx, cancel := context.WithTimeout(context.Background(), resultSaveTimeout)
		defer cancel()
		if err := sess.server.results.Save(ctx, sess.matchResult(snapshot)); err != nil {
			sess.logger.Error("failed to persist match result", zap.Error(err))
		}
	}
}

func (sess *session) matchResult(snapshot *game.Snapshot) *repository.MatchResult {
	totalAbsorbed := 0
	for _, view := range snapshot.Insurances {
		totalAbsorbed += view.TotalDamageAbsorbed
	}
	return &repository.MatchResult{
		GameID:              snapshot.GameID,
		Outcome:             snapshot.Status.String(),
		Turns:               snapshot.Turn,
		FinalVitality:       snapshot.Vitality,
		ChallengesWon:       snapshot.ChallengesWon,
		ChallengesLost:      snapshot.ChallengesLost,
		InsurancesActivated: len(snapshot.Insurances),
		TotalDamageAbsorbed: totalAbsorbed,
		FinishedAt:          time.Now(),
	}
}
