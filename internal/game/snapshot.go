package game

import "time"

// InsuranceView is the read-only projection of one active policy.
type InsuranceView struct {
	ID                  string
	CardID              string
	Name                string
	Coverage            int
	Premium             int
	AdjustedPremium     int
	Duration            DurationKind
	RemainingTurns      int
	HasRemainingTurns   bool
	UsageCount          int
	TotalDamageAbsorbed int
	Expired             bool
}

// ChallengeView is the read-only projection of the challenge in progress.
type ChallengeView struct {
	ID              string
	CardID          string
	Name            string
	RequiredPower   int
	SelectedPower   int
	SelectedCardIDs []string
	Status          string
}

// Snapshot is a read-only view of the whole match, consumed by UI layers and
// external strategy selectors. The core never calls into those collaborators;
// it only supplies state.
type Snapshot struct {
	GameID          string
	Vitality        int
	MaxVitality     int
	Turn            int
	Stage           LifeStage
	Phase           GamePhase
	Status          GameStatus
	ChallengesWon   int
	ChallengesLost  int
	Challenge       *ChallengeView
	Insurances      []InsuranceView
	InsuranceBurden int
	TakenAt         time.Time
}

// snapshotLocked builds the snapshot. Caller holds the service lock.
func (s *GameService) snapshotLocked() Snapshot {
	g := s.game
	snap := Snapshot{
		GameID:         g.ID(),
		Vitality:       g.Vitality().Current(),
		MaxVitality:    g.Vitality().Max(),
		Turn:           g.Turn(),
		Stage:          g.Stage(),
		Phase:          g.Phase(),
		Status:         g.Status(),
		ChallengesWon:  g.ChallengesWon(),
		ChallengesLost: g.ChallengesLost(),
		TakenAt:        time.Now(),
	}

	if s.challenge != nil {
		selected := s.challenge.SelectedCards()
		ids := make([]string, len(selected))
		for i, card := range selected {
			ids[i] = card.ID()
		}
		snap.Challenge = &ChallengeView{
			ID:              s.challenge.ID(),
			CardID:          s.challenge.Card().ID(),
			Name:            s.challenge.Card().Name(),
			RequiredPower:   s.challenge.RequiredPower().Value(),
			SelectedPower:   s.challenge.SelectedPower().Value(),
			SelectedCardIDs: ids,
			Status:          s.challenge.Status().String(),
		}
	}

	stage := g.Stage()
	burden := InsurancePremium(0)
	snap.Insurances = make([]InsuranceView, 0, len(s.insurances))
	for _, insurance := range s.insurances {
		adjusted := insurance.AdjustedPremium(stage)
		burden = burden.Add(adjusted)
		remaining, hasTerm := insurance.RemainingTurns()
		snap.Insurances = append(snap.Insurances, InsuranceView{
			ID:                  insurance.ID(),
			CardID:              insurance.Card().ID(),
			Name:                insurance.Card().Name(),
			Coverage:            insurance.Coverage().Value(),
			Premium:             insurance.Premium().Value(),
			AdjustedPremium:     adjusted.Value(),
			Duration:            insurance.Card().Duration(),
			RemainingTurns:      remaining,
			HasRemainingTurns:   hasTerm,
			UsageCount:          insurance.UsageCount(),
			TotalDamageAbsorbed: insurance.TotalDamageAbsorbed(),
			Expired:             insurance.IsExpired(),
		})
	}
	snap.InsuranceBurden = burden.Value()
	return snap
}
