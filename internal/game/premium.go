package game

import "fmt"

// InsurancePremium represents the non-negative per-turn cost of holding an
// insurance policy. Values are immutable; adjustments return new instances.
type InsurancePremium int

// NewInsurancePremium creates a premium value, rejecting negatives.
func NewInsurancePremium(value int) (InsurancePremium, error) {
	if value < 0 {
		return 0, fmt.Errorf("%w: premium must be >= 0, got %d", ErrInvalidArgument, value)
	}
	return InsurancePremium(value), nil
}

// Value returns the numeric premium.
func (p InsurancePremium) Value() int {
	return int(p)
}

// Add returns a new premium equal to the sum of both operands.
func (p InsurancePremium) Add(other InsurancePremium) InsurancePremium {
	return p + other
}

// AdjustedFor returns the premium scaled by the life-stage multiplier:
// youth x1.0, middle age x1.2, elder x1.5. Integer truncation, so a base
// premium of 10 yields 10 / 12 / 15.
func (p InsurancePremium) AdjustedFor(stage LifeStage) InsurancePremium {
	num, den := stage.premiumRatio()
	return InsurancePremium(int(p) * num / den)
}

func (p InsurancePremium) String() string {
	return fmt.Sprintf("%d", int(p))
}
