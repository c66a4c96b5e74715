package game

import "fmt"

// Vitality represents the game's bounded health pool. The current value is
// always within [0, max]. Vitality is immutable; Decrease/Increase return new
// instances clamped to the bounds.
type Vitality struct {
	current int
	max     int
}

// NewVitality creates a vitality value. The maximum must be positive and the
// current value must lie within [0, max].
func NewVitality(current, max int) (Vitality, error) {
	if max <= 0 {
		return Vitality{}, fmt.Errorf("%w: max vitality must be > 0, got %d", ErrInvalidArgument, max)
	}
	if current < 0 || current > max {
		return Vitality{}, fmt.Errorf("%w: vitality %d outside [0, %d]", ErrInvalidArgument, current, max)
	}
	return Vitality{current: current, max: max}, nil
}

// Current returns the current vitality.
func (v Vitality) Current() int {
	return v.current
}

// Max returns the upper bound.
func (v Vitality) Max() int {
	return v.max
}

// Decrease returns a new vitality reduced by amount, floored at zero.
// Negative amounts are treated as zero; validation happens at the aggregate.
func (v Vitality) Decrease(amount int) Vitality {
	if amount <= 0 {
		return v
	}
	next := v.current - amount
	if next < 0 {
		next = 0
	}
	return Vitality{current: next, max: v.max}
}

// Increase returns a new vitality raised by amount, capped at max.
func (v Vitality) Increase(amount int) Vitality {
	if amount <= 0 {
		return v
	}
	next := v.current + amount
	if next > v.max {
		next = v.max
	}
	return Vitality{current: next, max: v.max}
}

// IsDepleted reports whether vitality has reached zero.
func (v Vitality) IsDepleted() bool {
	return v.current == 0
}

func (v Vitality) String() string {
	return fmt.Sprintf("%d/%d", v.current, v.max)
}
