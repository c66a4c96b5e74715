package game

import (
	"fmt"

	"github.com/google/uuid"
)

// CardKind indicates the category of a card.
type CardKind string

const (
	KindLife      CardKind = "life"
	KindChallenge CardKind = "challenge"
	KindInsurance CardKind = "insurance"
)

// DurationKind indicates how long an insurance policy stays in force.
type DurationKind string

const (
	DurationTerm      DurationKind = "term"
	DurationWholeLife DurationKind = "whole_life"
)

// Card is the common surface of all card variants. Insurance-only fields
// (coverage, duration, remaining turns) live on InsuranceCard so callers can
// only reach them when the variant guarantees their presence.
type Card interface {
	ID() string
	Name() string
	Kind() CardKind
	Power() CardPower
	Cost() int
}

// baseCard carries the fields shared by every card variant.
type baseCard struct {
	id    string
	name  string
	power CardPower
	cost  int
}

func newBaseCard(id, name string, power, cost int) (baseCard, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" {
		return baseCard{}, fmt.Errorf("%w: card name must not be empty", ErrInvalidArgument)
	}
	p, err := NewCardPower(power)
	if err != nil {
		return baseCard{}, err
	}
	if cost < 0 {
		return baseCard{}, fmt.Errorf("%w: card cost must be >= 0, got %d", ErrInvalidArgument, cost)
	}
	return baseCard{id: id, name: name, power: p, cost: cost}, nil
}

func (c baseCard) ID() string       { return c.id }
func (c baseCard) Name() string     { return c.name }
func (c baseCard) Power() CardPower { return c.power }
func (c baseCard) Cost() int        { return c.cost }

// LifeCard is an ordinary playable card contributing power to challenges.
type LifeCard struct {
	baseCard
}

// NewLifeCard creates a life card. An empty id is replaced with a generated
// uuid.
func NewLifeCard(id, name string, power, cost int) (*LifeCard, error) {
	base, err := newBaseCard(id, name, power, cost)
	if err != nil {
		return nil, err
	}
	return &LifeCard{baseCard: base}, nil
}

func (c *LifeCard) Kind() CardKind { return KindLife }

// ChallengeCard describes a power-threshold contest. Its power is the
// required power the player must meet or beat.
type ChallengeCard struct {
	baseCard
}

// NewChallengeCard creates a challenge card.
func NewChallengeCard(id, name string, power, cost int) (*ChallengeCard, error) {
	base, err := newBaseCard(id, name, power, cost)
	if err != nil {
		return nil, err
	}
	return &ChallengeCard{baseCard: base}, nil
}

func (c *ChallengeCard) Kind() CardKind { return KindChallenge }

// InsuranceCard describes a damage-absorbing policy. The card's cost is the
// base premium of the policy it activates.
type InsuranceCard struct {
	baseCard
	coverage       CardPower
	duration       DurationKind
	remainingTurns int
	ageBonus       int
}

// NewInsuranceCard creates an insurance card. Term policies require a
// non-negative remaining-turn count; whole-life policies ignore it.
func NewInsuranceCard(id, name string, power, cost, coverage int, duration DurationKind, remainingTurns, ageBonus int) (*InsuranceCard, error) {
	base, err := newBaseCard(id, name, power, cost)
	if err != nil {
		return nil, err
	}
	cov, err := NewCardPower(coverage)
	if err != nil {
		return nil, fmt.Errorf("%w: coverage must be >= 0, got %d", ErrInvalidArgument, coverage)
	}
	switch duration {
	case DurationTerm:
		if remainingTurns < 0 {
			return nil, fmt.Errorf("%w: remaining turns must be >= 0, got %d", ErrInvalidArgument, remainingTurns)
		}
	case DurationWholeLife:
		remainingTurns = 0
	default:
		return nil, fmt.Errorf("%w: unknown duration kind %q", ErrInvalidArgument, duration)
	}
	if ageBonus < 0 {
		return nil, fmt.Errorf("%w: age bonus must be >= 0, got %d", ErrInvalidArgument, ageBonus)
	}
	return &InsuranceCard{
		baseCard:       base,
		coverage:       cov,
		duration:       duration,
		remainingTurns: remainingTurns,
		ageBonus:       ageBonus,
	}, nil
}

func (c *InsuranceCard) Kind() CardKind { return KindInsurance }

// Coverage returns the maximum damage one activation of this policy absorbs.
func (c *InsuranceCard) Coverage() CardPower { return c.coverage }

// Duration returns the policy duration kind.
func (c *InsuranceCard) Duration() DurationKind { return c.duration }

// RemainingTurns returns the term length. Meaningful only for term policies.
func (c *InsuranceCard) RemainingTurns() int { return c.remainingTurns }

// AgeBonus returns the optional stage-related bonus carried by the card.
func (c *InsuranceCard) AgeBonus() int { return c.ageBonus }

// IsTerm reports whether this card describes a term policy.
func (c *InsuranceCard) IsTerm() bool { return c.duration == DurationTerm }

// WithRemainingTurns returns a copy of the card with the term count replaced.
// This is the one sanctioned pre-activation adjustment; the card itself stays
// immutable.
func (c *InsuranceCard) WithRemainingTurns(turns int) (*InsuranceCard, error) {
	if !c.IsTerm() {
		return nil, fmt.Errorf("%w: whole-life policies have no term to adjust", ErrInvalidStateTransition)
	}
	if turns < 0 {
		return nil, fmt.Errorf("%w: remaining turns must be >= 0, got %d", ErrInvalidArgument, turns)
	}
	clone := *c
	clone.remainingTurns = turns
	return &clone, nil
}
