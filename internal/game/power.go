package game

import "fmt"

// CardPower represents the non-negative power value of a card.
// Values are immutable; arithmetic returns new instances.
type CardPower int

// NewCardPower creates a card power value, rejecting negatives.
func NewCardPower(value int) (CardPower, error) {
	if value < 0 {
		return 0, fmt.Errorf("%w: card power must be >= 0, got %d", ErrInvalidArgument, value)
	}
	return CardPower(value), nil
}

// Value returns the numeric power.
func (p CardPower) Value() int {
	return int(p)
}

// Add returns a new power equal to the sum of both operands.
func (p CardPower) Add(other CardPower) CardPower {
	return p + other
}

// Sub returns a new power reduced by other, floored at zero.
func (p CardPower) Sub(other CardPower) CardPower {
	if other >= p {
		return 0
	}
	return p - other
}

// AtLeast reports whether this power meets or exceeds the required threshold.
func (p CardPower) AtLeast(required CardPower) bool {
	return p >= required
}

func (p CardPower) String() string {
	return fmt.Sprintf("%d", int(p))
}
