package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Insurance owns one active insurance policy: damage absorption, turn-based
// expiration, and premium projection. Coverage and premium are snapshotted
// from the card at activation. Once expired, Use and DecrementTurn are
// no-ops.
type Insurance struct {
	id             string
	card           *InsuranceCard
	coverage       CardPower
	premium        InsurancePremium
	usageCount     int
	totalAbsorbed  int
	remainingTurns int // term policies only
	expired        bool
	events         []DomainEvent
}

// NewInsurance activates a policy from an insurance card and emits
// InsuranceActivated. A term card created with zero remaining turns starts
// expired.
func NewInsurance(card Card) (*Insurance, error) {
	insuranceCard, ok := card.(*InsuranceCard)
	if !ok {
		return nil, fmt.Errorf("%w: insurance requires an insurance card, got %q", ErrInvalidCardKind, card.Kind())
	}
	premium, err := NewInsurancePremium(insuranceCard.Cost())
	if err != nil {
		return nil, err
	}
	ins := &Insurance{
		id:             uuid.NewString(),
		card:           insuranceCard,
		coverage:       insuranceCard.Coverage(),
		premium:        premium,
		remainingTurns: insuranceCard.RemainingTurns(),
		expired:        insuranceCard.IsTerm() && insuranceCard.RemainingTurns() == 0,
	}
	ins.raise(InsuranceActivated{
		InsuranceID:    ins.id,
		CardID:         insuranceCard.ID(),
		Coverage:       ins.coverage.Value(),
		Premium:        ins.premium.Value(),
		Duration:       insuranceCard.Duration(),
		RemainingTurns: ins.remainingTurns,
		Timestamp:      time.Now(),
	})
	return ins, nil
}

// ID returns the generated policy identity.
func (i *Insurance) ID() string {
	return i.id
}

// Card returns the originating insurance card.
func (i *Insurance) Card() *InsuranceCard {
	return i.card
}

// Coverage returns the per-use absorption cap.
func (i *Insurance) Coverage() CardPower {
	return i.coverage
}

// Premium returns the base premium snapshotted at activation.
func (i *Insurance) Premium() InsurancePremium {
	return i.premium
}

// UsageCount returns how many times the policy has absorbed damage.
func (i *Insurance) UsageCount() int {
	return i.usageCount
}

// TotalDamageAbsorbed returns the cumulative damage absorbed.
func (i *Insurance) TotalDamageAbsorbed() int {
	return i.totalAbsorbed
}

// RemainingTurns returns the remaining term and true for term policies; the
// boolean is false for whole-life policies, which carry no term.
func (i *Insurance) RemainingTurns() (int, bool) {
	if !i.card.IsTerm() {
		return 0, false
	}
	return i.remainingTurns, true
}

// IsTerm reports whether the policy has a fixed term.
func (i *Insurance) IsTerm() bool {
	return i.card.IsTerm()
}

// IsExpired reports whether the policy has lapsed.
func (i *Insurance) IsExpired() bool {
	return i.expired
}

// IsActive reports whether the policy can still absorb damage.
func (i *Insurance) IsActive() bool {
	return !i.expired
}

// Use absorbs up to the coverage cap from the incoming damage and returns
// the absorbed and overflow portions. The caller routes the overflow to the
// next absorber in the chain or to vitality. An expired policy absorbs
// nothing and emits no event.
func (i *Insurance) Use(damage int) (absorbed, overflow int, err error) {
	if damage < 0 {
		return 0, 0, fmt.Errorf("%w: damage must be >= 0, got %d", ErrInvalidArgument, damage)
	}
	if !i.IsActive() {
		return 0, damage, nil
	}
	absorbed = damage
	if cap := i.coverage.Value(); absorbed > cap {
		absorbed = cap
	}
	overflow = damage - absorbed
	i.usageCount++
	i.totalAbsorbed += absorbed
	i.raise(InsuranceUsed{
		InsuranceID:    i.id,
		DamageAbsorbed: absorbed,
		DamageOverflow: overflow,
		Timestamp:      time.Now(),
	})
	return absorbed, overflow, nil
}

// DecrementTurn advances the policy by one game turn. Whole-life and
// already-expired policies are untouched. A term policy whose count reaches
// zero expires and emits InsuranceExpired with its lifetime totals.
func (i *Insurance) DecrementTurn() {
	if !i.card.IsTerm() || i.expired {
		return
	}
	if i.remainingTurns > 0 {
		i.remainingTurns--
	}
	if i.remainingTurns == 0 {
		i.expired = true
		i.raise(InsuranceExpired{
			InsuranceID:         i.id,
			TotalUsageCount:     i.usageCount,
			TotalDamageAbsorbed: i.totalAbsorbed,
			Timestamp:           time.Now(),
		})
	}
}

// AdjustedPremium projects the premium for a life stage. Read-only; the base
// premium is not mutated.
func (i *Insurance) AdjustedPremium(stage LifeStage) InsurancePremium {
	return i.premium.AdjustedFor(stage)
}

// DomainEvents returns the events raised since the last drain.
func (i *Insurance) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(i.events))
	copy(out, i.events)
	return out
}

// ClearDomainEvents discards the buffered events.
func (i *Insurance) ClearDomainEvents() {
	i.events = nil
}

func (i *Insurance) raise(event DomainEvent) {
	i.events = append(i.events, event)
}
