package game

// LifeStage represents the coarse phase of a match, derived from the turn
// counter. It affects insurance premium multipliers.
type LifeStage int

const (
	StageYouth LifeStage = iota
	StageMiddleAge
	StageElder
)

// Turn thresholds for stage derivation: turns 1-9 are youth, 10-19 middle
// age, 20 and up elder.
const (
	middleAgeTurn = 10
	elderTurn     = 20
)

func (s LifeStage) String() string {
	switch s {
	case StageYouth:
		return "YOUTH"
	case StageMiddleAge:
		return "MIDDLE_AGE"
	case StageElder:
		return "ELDER"
	default:
		return "UNKNOWN"
	}
}

// StageForTurn derives the life stage from a 1-based turn counter.
func StageForTurn(turn int) LifeStage {
	switch {
	case turn >= elderTurn:
		return StageElder
	case turn >= middleAgeTurn:
		return StageMiddleAge
	default:
		return StageYouth
	}
}

// premiumRatio returns the premium multiplier for this stage as a fraction.
func (s LifeStage) premiumRatio() (num, den int) {
	switch s {
	case StageMiddleAge:
		return 12, 10
	case StageElder:
		return 15, 10
	default:
		return 10, 10
	}
}
