package game

import "time"

// EventType indicates the category of a domain event.
type EventType string

const (
	EventGameStarted                 EventType = "GAME_STARTED"
	EventTurnAdvanced                EventType = "TURN_ADVANCED"
	EventVitalityChanged             EventType = "VITALITY_CHANGED"
	EventGameCompleted               EventType = "GAME_COMPLETED"
	EventGameOver                    EventType = "GAME_OVER"
	EventCardSelectedForChallenge    EventType = "CARD_SELECTED_FOR_CHALLENGE"
	EventCardDeselectedFromChallenge EventType = "CARD_DESELECTED_FROM_CHALLENGE"
	EventChallengeResolved           EventType = "CHALLENGE_RESOLVED"
	EventInsuranceActivated          EventType = "INSURANCE_ACTIVATED"
	EventInsuranceUsed               EventType = "INSURANCE_USED"
	EventInsuranceExpired            EventType = "INSURANCE_EXPIRED"
)

// DomainEvent is an immutable, timestamped record of a state change. Events
// are owned by the aggregate that raised them until the application service
// drains and republishes them.
type DomainEvent interface {
	EventType() EventType
	AggregateID() string
	OccurredAt() time.Time
}

// GameStarted is emitted when a match transitions out of not_started.
type GameStarted struct {
	GameID    string
	Vitality  int
	Timestamp time.Time
}

func (e GameStarted) EventType() EventType  { return EventGameStarted }
func (e GameStarted) AggregateID() string   { return e.GameID }
func (e GameStarted) OccurredAt() time.Time { return e.Timestamp }

// TurnAdvanced is emitted once per turn increment.
type TurnAdvanced struct {
	GameID    string
	Turn      int
	Stage     LifeStage
	Timestamp time.Time
}

func (e TurnAdvanced) EventType() EventType  { return EventTurnAdvanced }
func (e TurnAdvanced) AggregateID() string   { return e.GameID }
func (e TurnAdvanced) OccurredAt() time.Time { return e.Timestamp }

// VitalityChanged is emitted on every damage or heal application, carrying
// the previous and new values and a reason string.
type VitalityChanged struct {
	GameID    string
	Previous  int
	Current   int
	Reason    string
	Timestamp time.Time
}

func (e VitalityChanged) EventType() EventType  { return EventVitalityChanged }
func (e VitalityChanged) AggregateID() string   { return e.GameID }
func (e VitalityChanged) OccurredAt() time.Time { return e.Timestamp }

// GameCompleted is emitted on the manual success-path termination.
type GameCompleted struct {
	GameID    string
	Turn      int
	Timestamp time.Time
}

func (e GameCompleted) EventType() EventType  { return EventGameCompleted }
func (e GameCompleted) AggregateID() string   { return e.GameID }
func (e GameCompleted) OccurredAt() time.Time { return e.Timestamp }

// GameOver is emitted when vitality reaches zero.
type GameOver struct {
	GameID    string
	Turn      int
	Timestamp time.Time
}

func (e GameOver) EventType() EventType  { return EventGameOver }
func (e GameOver) AggregateID() string   { return e.GameID }
func (e GameOver) OccurredAt() time.Time { return e.Timestamp }

// CardSelectedForChallenge is emitted when a card joins the selection list.
type CardSelectedForChallenge struct {
	ChallengeID string
	CardID      string
	Timestamp   time.Time
}

func (e CardSelectedForChallenge) EventType() EventType  { return EventCardSelectedForChallenge }
func (e CardSelectedForChallenge) AggregateID() string   { return e.ChallengeID }
func (e CardSelectedForChallenge) OccurredAt() time.Time { return e.Timestamp }

// CardDeselectedFromChallenge is emitted when a card leaves the selection
// list, whether by explicit deselection or by the select toggle.
type CardDeselectedFromChallenge struct {
	ChallengeID string
	CardID      string
	Timestamp   time.Time
}

func (e CardDeselectedFromChallenge) EventType() EventType  { return EventCardDeselectedFromChallenge }
func (e CardDeselectedFromChallenge) AggregateID() string   { return e.ChallengeID }
func (e CardDeselectedFromChallenge) OccurredAt() time.Time { return e.Timestamp }

// ChallengeResolved is emitted exactly once per challenge.
type ChallengeResolved struct {
	ChallengeID     string
	Success         bool
	TotalPower      int
	RequiredPower   int
	SelectedCardIDs []string
	Timestamp       time.Time
}

func (e ChallengeResolved) EventType() EventType  { return EventChallengeResolved }
func (e ChallengeResolved) AggregateID() string   { return e.ChallengeID }
func (e ChallengeResolved) OccurredAt() time.Time { return e.Timestamp }

// InsuranceActivated is emitted when a policy is created from a card.
type InsuranceActivated struct {
	InsuranceID    string
	CardID         string
	Coverage       int
	Premium        int
	Duration       DurationKind
	RemainingTurns int
	Timestamp      time.Time
}

func (e InsuranceActivated) EventType() EventType  { return EventInsuranceActivated }
func (e InsuranceActivated) AggregateID() string   { return e.InsuranceID }
func (e InsuranceActivated) OccurredAt() time.Time { return e.Timestamp }

// InsuranceUsed is emitted when a policy absorbs damage. DamageOverflow is
// the portion the caller must route to the next absorber or to vitality.
type InsuranceUsed struct {
	InsuranceID    string
	DamageAbsorbed int
	DamageOverflow int
	Timestamp      time.Time
}

func (e InsuranceUsed) EventType() EventType  { return EventInsuranceUsed }
func (e InsuranceUsed) AggregateID() string   { return e.InsuranceID }
func (e InsuranceUsed) OccurredAt() time.Time { return e.Timestamp }

// InsuranceExpired is emitted when a term policy's remaining turns reach
// zero, carrying its lifetime usage totals.
type InsuranceExpired struct {
	InsuranceID         string
	TotalUsageCount     int
	TotalDamageAbsorbed int
	Timestamp           time.Time
}

func (e InsuranceExpired) EventType() EventType  { return EventInsuranceExpired }
func (e InsuranceExpired) AggregateID() string   { return e.InsuranceID }
func (e InsuranceExpired) OccurredAt() time.Time { return e.Timestamp }
