package game

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// GameService is the only component that touches more than one aggregate. It
// sequences challenge and insurance operations, routes damage from failed
// challenges through the insurance chain before it hits vitality, and
// collects the aggregates' domain events for an injected publisher.
//
// Every public method runs to completion before returning; the mutex exists
// because transport layers may drive the service from their own goroutines,
// not because any operation blocks or interleaves.
type GameService struct {
	mu        sync.Mutex
	logger    *zap.Logger
	publisher Publisher

	game       *Game
	challenge  *Challenge
	insurances []*Insurance // activation order, first-activated-first-used
	events     []DomainEvent
}

// NewGameService creates a service around a single match. The publisher may
// be nil, in which case events are only collected. A nil logger falls back
// to a no-op logger.
func NewGameService(g *Game, publisher Publisher, logger *zap.Logger) *GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameService{
		logger:    logger,
		publisher: publisher,
		game:      g,
	}
}

// Game returns the match aggregate.
func (s *GameService) Game() *Game {
	return s.game
}

// StartGame begins the match.
func (s *GameService) StartGame() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.Start(); err != nil {
		return err
	}
	s.drainGame()
	s.logger.Info("game started",
		zap.String("game_id", s.game.ID()),
		zap.Int("vitality", s.game.Vitality().Current()),
	)
	return nil
}

// StartChallenge begins a challenge attempt from a challenge card. Only one
// challenge may be in progress at a time; a second start fails
// deterministically rather than queueing.
func (s *GameService) StartChallenge(card Card) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.game.IsInProgress() {
		return nil, fmt.Errorf("%w: game is %s", ErrInvalidStateTransition, s.game.Status())
	}
	if s.challenge != nil && s.challenge.IsInProgress() {
		return nil, ErrChallengeInProgress
	}
	challenge, err := NewChallenge(card)
	if err != nil {
		return nil, err
	}
	if err := s.game.EnterPhase(PhaseChallenge); err != nil {
		return nil, err
	}
	s.challenge = challenge
	s.logger.Info("challenge started",
		zap.String("challenge_id", challenge.ID()),
		zap.String("card", card.Name()),
		zap.Int("required_power", challenge.RequiredPower().Value()),
	)
	return challenge, nil
}

// SelectCardForChallenge toggles a card in the current challenge selection.
func (s *GameService) SelectCardForChallenge(card Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.game.IsInProgress() {
		return fmt.Errorf("%w: game is %s", ErrInvalidStateTransition, s.game.Status())
	}
	if s.challenge == nil {
		return ErrNoActiveChallenge
	}
	if err := s.challenge.SelectCard(card); err != nil {
		return err
	}
	s.drainChallenge()
	return nil
}

// DeselectCardForChallenge removes a card from the current selection.
func (s *GameService) DeselectCardForChallenge(card Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.game.IsInProgress() {
		return fmt.Errorf("%w: game is %s", ErrInvalidStateTransition, s.game.Status())
	}
	if s.challenge == nil {
		return ErrNoActiveChallenge
	}
	if err := s.challenge.DeselectCard(card); err != nil {
		return err
	}
	s.drainChallenge()
	return nil
}

// ResolveChallenge resolves the current challenge. On failure the shortfall
// is routed through the active insurances in activation order before any
// residual reaches vitality. The challenge is cleared either way.
//
// The game-status guard comes first: the challenge must not be flipped to
// resolved unless the whole operation can run to completion.
func (s *GameService) ResolveChallenge() (*ChallengeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.game.IsInProgress() {
		return nil, fmt.Errorf("%w: game is %s", ErrInvalidStateTransition, s.game.Status())
	}
	if s.challenge == nil {
		return nil, ErrNoActiveChallenge
	}
	result, err := s.challenge.Resolve()
	if err != nil {
		return nil, err
	}
	s.drainChallenge()

	if err := s.game.EnterPhase(PhaseResolution); err != nil {
		return nil, err
	}
	s.game.RecordChallengeOutcome(result.IsSuccess())

	if !result.IsSuccess() {
		if err := s.applyDamageWithInsurance(result.Damage()); err != nil {
			return nil, err
		}
	}
	s.drainGame()

	s.logger.Info("challenge resolved",
		zap.String("challenge_id", s.challenge.ID()),
		zap.Bool("success", result.IsSuccess()),
		zap.Int("total_power", result.TotalPower()),
		zap.Int("required_power", result.RequiredPower()),
		zap.Int("damage", result.Damage()),
	)
	s.challenge = nil
	return result, nil
}

// ActivateInsurance creates a policy from an insurance card and appends it
// to the active set.
func (s *GameService) ActivateInsurance(card Card) (*Insurance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.game.IsInProgress() {
		return nil, fmt.Errorf("%w: game is %s", ErrInvalidStateTransition, s.game.Status())
	}
	insurance, err := NewInsurance(card)
	if err != nil {
		return nil, err
	}
	s.insurances = append(s.insurances, insurance)
	s.drainInsurance(insurance)
	s.logger.Info("insurance activated",
		zap.String("insurance_id", insurance.ID()),
		zap.String("card", card.Name()),
		zap.Int("coverage", insurance.Coverage().Value()),
	)
	return insurance, nil
}

// NextTurn decrements every active insurance, removes the ones that expired,
// and advances the match turn. Removal is two-pass so no entry is skipped or
// double-processed while iterating.
func (s *GameService) NextTurn() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.game.IsInProgress() {
		return fmt.Errorf("%w: game is %s", ErrInvalidStateTransition, s.game.Status())
	}

	expired := make(map[string]bool)
	for _, insurance := range s.insurances {
		insurance.DecrementTurn()
		s.drainInsurance(insurance)
		if insurance.IsExpired() {
			expired[insurance.ID()] = true
		}
	}
	if len(expired) > 0 {
		kept := s.insurances[:0]
		for _, insurance := range s.insurances {
			if !expired[insurance.ID()] {
				kept = append(kept, insurance)
			}
		}
		s.insurances = kept
		s.logger.Info("insurances expired", zap.Int("count", len(expired)))
	}

	if err := s.game.NextTurn(); err != nil {
		return err
	}
	s.drainGame()
	return nil
}

// CurrentChallenge returns the challenge in progress, or nil.
func (s *GameService) CurrentChallenge() *Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.challenge
}

// ActiveInsurances returns the active policies in activation order.
func (s *GameService) ActiveInsurances() []*Insurance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Insurance, len(s.insurances))
	copy(out, s.insurances)
	return out
}

// DomainEvents returns all events collected since the last clear.
func (s *GameService) DomainEvents() []DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DomainEvent, len(s.events))
	copy(out, s.events)
	return out
}

// ClearDomainEvents discards the collected events.
func (s *GameService) ClearDomainEvents() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

// Snapshot returns a read-only view of the whole match for UI rendering and
// AI strategy selection.
func (s *GameService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// applyDamageWithInsurance routes damage through the insurance chain in
// activation order until it is fully absorbed or the chain is exhausted; any
// leftover hits vitality. Caller holds the lock.
func (s *GameService) applyDamageWithInsurance(damage int) error {
	remaining := damage
	for _, insurance := range s.insurances {
		if remaining <= 0 {
			break
		}
		if !insurance.IsActive() {
			continue
		}
		absorbed, overflow, err := insurance.Use(remaining)
		if err != nil {
			return err
		}
		s.drainInsurance(insurance)
		if absorbed > 0 {
			s.logger.Debug("insurance absorbed damage",
				zap.String("insurance_id", insurance.ID()),
				zap.Int("absorbed", absorbed),
				zap.Int("overflow", overflow),
			)
		}
		remaining = overflow
	}
	if remaining > 0 {
		return s.game.ApplyDamage(remaining, "challenge failure")
	}
	return nil
}

func (s *GameService) drainGame() {
	s.collect(s.game.DomainEvents())
	s.game.ClearDomainEvents()
}

func (s *GameService) drainChallenge() {
	s.collect(s.challenge.DomainEvents())
	s.challenge.ClearDomainEvents()
}

func (s *GameService) drainInsurance(insurance *Insurance) {
	s.collect(insurance.DomainEvents())
	insurance.ClearDomainEvents()
}

// collect appends drained events to the service buffer and republishes each
// through the injected publisher. Publisher panics are isolated here: the
// aggregate state change already happened, so a broken subscriber must not
// undo it or abort the operation.
func (s *GameService) collect(events []DomainEvent) {
	for _, event := range events {
		s.events = append(s.events, event)
		s.publish(event)
	}
}

func (s *GameService) publish(event DomainEvent) {
	if s.publisher == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event publisher panicked",
				zap.String("event_type", string(event.EventType())),
				zap.Any("panic", r),
			)
		}
	}()
	s.publisher.Publish(event)
}
