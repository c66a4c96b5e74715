package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GamePhase represents the step of a turn currently in progress.
type GamePhase int

const (
	PhaseSetup GamePhase = iota
	PhaseDraw
	PhaseChallenge
	PhaseResolution
	PhaseEndTurn
)

var phaseNames = map[GamePhase]string{
	PhaseSetup:      "SETUP",
	PhaseDraw:       "DRAW",
	PhaseChallenge:  "CHALLENGE",
	PhaseResolution: "RESOLUTION",
	PhaseEndTurn:    "END_TURN",
}

func (p GamePhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// GameStatus represents the lifecycle state of a match.
type GameStatus int

const (
	StatusNotStarted GameStatus = iota
	StatusInProgress
	StatusPaused
	StatusCompleted
	StatusGameOver
)

var statusNames = map[GameStatus]string{
	StatusNotStarted: "NOT_STARTED",
	StatusInProgress: "IN_PROGRESS",
	StatusPaused:     "PAUSED",
	StatusCompleted:  "COMPLETED",
	StatusGameOver:   "GAME_OVER",
}

func (s GameStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATUS_%d", int(s))
}

// Game owns overall match state: vitality, turn counter, phase, and status.
// It is the ultimate sink for unabsorbed damage. The life stage is derived
// from the turn counter, never stored.
type Game struct {
	id             string
	vitality       Vitality
	turn           int
	phase          GamePhase
	status         GameStatus
	challengesWon  int
	challengesLost int
	events         []DomainEvent
}

// NewGame creates a match in the not_started state.
func NewGame(startingVitality, maxVitality int) (*Game, error) {
	vitality, err := NewVitality(startingVitality, maxVitality)
	if err != nil {
		return nil, err
	}
	return &Game{
		id:       uuid.NewString(),
		vitality: vitality,
		phase:    PhaseSetup,
		status:   StatusNotStarted,
	}, nil
}

// ID returns the generated match identity.
func (g *Game) ID() string { return g.id }

// Vitality returns the current bounded health pool.
func (g *Game) Vitality() Vitality { return g.vitality }

// Turn returns the 1-based turn counter; zero before the match starts.
func (g *Game) Turn() int { return g.turn }

// Stage derives the life stage from the turn counter.
func (g *Game) Stage() LifeStage { return StageForTurn(g.turn) }

// Phase returns the current turn phase.
func (g *Game) Phase() GamePhase { return g.phase }

// Status returns the match lifecycle state.
func (g *Game) Status() GameStatus { return g.status }

// IsInProgress reports whether aggregate operations are currently legal.
func (g *Game) IsInProgress() bool { return g.status == StatusInProgress }

// ChallengesWon returns the number of successful challenge resolutions.
func (g *Game) ChallengesWon() int { return g.challengesWon }

// ChallengesLost returns the number of failed challenge resolutions.
func (g *Game) ChallengesLost() int { return g.challengesLost }

// Start begins the match: status in_progress, phase draw, turn 1.
func (g *Game) Start() error {
	if g.status != StatusNotStarted {
		return fmt.Errorf("%w: cannot start game from %s", ErrInvalidStateTransition, g.status)
	}
	g.status = StatusInProgress
	g.phase = PhaseDraw
	g.turn = 1
	g.raise(GameStarted{GameID: g.id, Vitality: g.vitality.Current(), Timestamp: time.Now()})
	return nil
}

// ApplyDamage reduces vitality by amount, clamped at zero. Hitting zero
// forces game_over on the same call.
func (g *Game) ApplyDamage(amount int, reason string) error {
	if !g.IsInProgress() {
		return fmt.Errorf("%w: cannot apply damage while %s", ErrInvalidStateTransition, g.status)
	}
	if amount < 0 {
		return fmt.Errorf("%w: damage must be >= 0, got %d", ErrInvalidArgument, amount)
	}
	previous := g.vitality.Current()
	g.vitality = g.vitality.Decrease(amount)
	g.raise(VitalityChanged{
		GameID:    g.id,
		Previous:  previous,
		Current:   g.vitality.Current(),
		Reason:    reason,
		Timestamp: time.Now(),
	})
	if g.vitality.IsDepleted() {
		g.status = StatusGameOver
		g.raise(GameOver{GameID: g.id, Turn: g.turn, Timestamp: time.Now()})
	}
	return nil
}

// Heal raises vitality by amount, capped at the maximum.
func (g *Game) Heal(amount int, reason string) error {
	if !g.IsInProgress() {
		return fmt.Errorf("%w: cannot heal while %s", ErrInvalidStateTransition, g.status)
	}
	if amount < 0 {
		return fmt.Errorf("%w: heal must be >= 0, got %d", ErrInvalidArgument, amount)
	}
	previous := g.vitality.Current()
	g.vitality = g.vitality.Increase(amount)
	g.raise(VitalityChanged{
		GameID:    g.id,
		Previous:  previous,
		Current:   g.vitality.Current(),
		Reason:    reason,
		Timestamp: time.Now(),
	})
	return nil
}

// NextTurn increments the turn counter and resets the phase to draw.
func (g *Game) NextTurn() error {
	if !g.IsInProgress() {
		return fmt.Errorf("%w: cannot advance turn while %s", ErrInvalidStateTransition, g.status)
	}
	g.turn++
	g.phase = PhaseDraw
	g.raise(TurnAdvanced{GameID: g.id, Turn: g.turn, Stage: g.Stage(), Timestamp: time.Now()})
	return nil
}

// EnterPhase moves the match to a new phase within the current turn.
func (g *Game) EnterPhase(phase GamePhase) error {
	if !g.IsInProgress() {
		return fmt.Errorf("%w: cannot change phase while %s", ErrInvalidStateTransition, g.status)
	}
	g.phase = phase
	return nil
}

// RecordChallengeOutcome tallies a resolved challenge on the match.
func (g *Game) RecordChallengeOutcome(success bool) {
	if success {
		g.challengesWon++
	} else {
		g.challengesLost++
	}
}

// Pause suspends an in-progress match.
func (g *Game) Pause() error {
	if g.status != StatusInProgress {
		return fmt.Errorf("%w: cannot pause game from %s", ErrInvalidStateTransition, g.status)
	}
	g.status = StatusPaused
	return nil
}

// Resume continues a paused match.
func (g *Game) Resume() error {
	if g.status != StatusPaused {
		return fmt.Errorf("%w: cannot resume game from %s", ErrInvalidStateTransition, g.status)
	}
	g.status = StatusInProgress
	return nil
}

// Complete is the manual success-path termination.
func (g *Game) Complete() error {
	if g.status != StatusInProgress {
		return fmt.Errorf("%w: cannot complete game from %s", ErrInvalidStateTransition, g.status)
	}
	g.status = StatusCompleted
	g.raise(GameCompleted{GameID: g.id, Turn: g.turn, Timestamp: time.Now()})
	return nil
}

// DomainEvents returns the events raised since the last drain.
func (g *Game) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(g.events))
	copy(out, g.events)
	return out
}

// ClearDomainEvents discards the buffered events.
func (g *Game) ClearDomainEvents() {
	g.events = nil
}

func (g *Game) raise(event DomainEvent) {
	g.events = append(g.events, event)
}
