package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChallengeStatus represents the lifecycle state of a challenge attempt.
type ChallengeStatus int

const (
	ChallengeStatusInProgress ChallengeStatus = iota
	ChallengeStatusResolved
)

func (s ChallengeStatus) String() string {
	switch s {
	case ChallengeStatusInProgress:
		return "IN_PROGRESS"
	case ChallengeStatusResolved:
		return "RESOLVED"
	default:
		return "UNKNOWN"
	}
}

// Challenge owns the lifecycle of a single challenge attempt: card
// selection, power summation, and win/loss resolution. The required power is
// snapshotted from the challenge card at creation and never changes.
type Challenge struct {
	id       string
	card     *ChallengeCard
	required CardPower
	selected []Card // ordered by selection, no duplicates
	status   ChallengeStatus
	events   []DomainEvent
}

// NewChallenge creates a challenge attempt from a challenge card.
func NewChallenge(card Card) (*Challenge, error) {
	challengeCard, ok := card.(*ChallengeCard)
	if !ok {
		return nil, fmt.Errorf("%w: challenge requires a challenge card, got %q", ErrInvalidCardKind, card.Kind())
	}
	return &Challenge{
		id:       uuid.NewString(),
		card:     challengeCard,
		required: challengeCard.Power(),
		status:   ChallengeStatusInProgress,
	}, nil
}

// ID returns the generated challenge identity.
func (c *Challenge) ID() string {
	return c.id
}

// Card returns the originating challenge card.
func (c *Challenge) Card() *ChallengeCard {
	return c.card
}

// RequiredPower returns the power threshold snapshotted at creation.
func (c *Challenge) RequiredPower() CardPower {
	return c.required
}

// Status returns the current lifecycle state.
func (c *Challenge) Status() ChallengeStatus {
	return c.status
}

// IsInProgress reports whether the challenge can still accept selections.
func (c *Challenge) IsInProgress() bool {
	return c.status == ChallengeStatusInProgress
}

// SelectedCards returns a copy of the selection list in selection order.
func (c *Challenge) SelectedCards() []Card {
	out := make([]Card, len(c.selected))
	copy(out, c.selected)
	return out
}

// SelectCard adds a non-challenge card to the selection list. Selecting a
// card already in the list deselects it instead (toggle semantics). Exactly
// one event is emitted per effective change.
func (c *Challenge) SelectCard(card Card) error {
	if !c.IsInProgress() {
		return ErrChallengeResolved
	}
	if card.Kind() == KindChallenge {
		return fmt.Errorf("%w: challenge cards cannot be selected as power", ErrInvalidCardKind)
	}
	if idx := c.indexOf(card.ID()); idx >= 0 {
		c.removeAt(idx)
		c.raise(CardDeselectedFromChallenge{ChallengeID: c.id, CardID: card.ID(), Timestamp: time.Now()})
		return nil
	}
	c.selected = append(c.selected, card)
	c.raise(CardSelectedForChallenge{ChallengeID: c.id, CardID: card.ID(), Timestamp: time.Now()})
	return nil
}

// DeselectCard removes a card from the selection list. Deselecting a card
// that is not selected is a no-op and emits no event.
func (c *Challenge) DeselectCard(card Card) error {
	if !c.IsInProgress() {
		return ErrChallengeResolved
	}
	idx := c.indexOf(card.ID())
	if idx < 0 {
		return nil
	}
	c.removeAt(idx)
	c.raise(CardDeselectedFromChallenge{ChallengeID: c.id, CardID: card.ID(), Timestamp: time.Now()})
	return nil
}

// SelectedPower sums the power of the current selection. Pure and callable
// at any time, including after resolution.
func (c *Challenge) SelectedPower() CardPower {
	var total CardPower
	for _, card := range c.selected {
		total = total.Add(card.Power())
	}
	return total
}

// Resolve computes the outcome and flips the challenge to resolved. A tie
// counts as success. Calling Resolve twice fails.
func (c *Challenge) Resolve() (*ChallengeResult, error) {
	if !c.IsInProgress() {
		return nil, ErrChallengeResolved
	}
	total := c.SelectedPower()
	result := &ChallengeResult{
		total:    total,
		required: c.required,
		success:  total.AtLeast(c.required),
	}
	c.status = ChallengeStatusResolved

	ids := make([]string, len(c.selected))
	for i, card := range c.selected {
		ids[i] = card.ID()
	}
	c.raise(ChallengeResolved{
		ChallengeID:     c.id,
		Success:         result.IsSuccess(),
		TotalPower:      total.Value(),
		RequiredPower:   c.required.Value(),
		SelectedCardIDs: ids,
		Timestamp:       time.Now(),
	})
	return result, nil
}

// DomainEvents returns the events raised since the last drain.
func (c *Challenge) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(c.events))
	copy(out, c.events)
	return out
}

// ClearDomainEvents discards the buffered events.
func (c *Challenge) ClearDomainEvents() {
	c.events = nil
}

func (c *Challenge) raise(event DomainEvent) {
	c.events = append(c.events, event)
}

func (c *Challenge) indexOf(cardID string) int {
	for i, card := range c.selected {
		if card.ID() == cardID {
			return i
		}
	}
	return -1
}

func (c *Challenge) removeAt(idx int) {
	c.selected = append(c.selected[:idx], c.selected[idx+1:]...)
}

// ChallengeResult is the immutable outcome of a resolved challenge.
type ChallengeResult struct {
	success  bool
	total    CardPower
	required CardPower
}

// IsSuccess reports whether the total power met the threshold.
func (r *ChallengeResult) IsSuccess() bool {
	return r.success
}

// TotalPower returns the summed power of the selection at resolution.
func (r *ChallengeResult) TotalPower() int {
	return r.total.Value()
}

// RequiredPower returns the threshold the challenge demanded.
func (r *ChallengeResult) RequiredPower() int {
	return r.required.Value()
}

// Damage returns the shortfall to apply on failure: max(0, required-total).
func (r *ChallengeResult) Damage() int {
	if r.success {
		return 0
	}
	return r.required.Sub(r.total).Value()
}
