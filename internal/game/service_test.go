package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T) *GameService {
	t.Helper()
	g, err := NewGame(100, 100)
	require.NoError(t, err)
	svc := NewGameService(g, NewEventBus(), zaptest.NewLogger(t))
	require.NoError(t, svc.StartGame())
	svc.ClearDomainEvents()
	return svc
}

func testChallengeCard(t *testing.T, power int) *ChallengeCard {
	t.Helper()
	card, err := NewChallengeCard("", "Job Hunt", power, 0)
	require.NoError(t, err)
	return card
}

func testLifeCard(t *testing.T, id string, power int) *LifeCard {
	t.Helper()
	card, err := NewLifeCard(id, "Life "+id, power, 0)
	require.NoError(t, err)
	return card
}

func testTermInsurance(t *testing.T, coverage, premium, turns int) *InsuranceCard {
	t.Helper()
	card, err := NewInsuranceCard("", "Term", 0, premium, coverage, DurationTerm, turns, 0)
	require.NoError(t, err)
	return card
}

func TestGameService_StartChallengeExclusion(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.StartChallenge(testChallengeCard(t, 30))
	require.NoError(t, err)
	assert.Equal(t, PhaseChallenge, svc.Game().Phase())

	// A second concurrent challenge start fails deterministically
	_, err = svc.StartChallenge(testChallengeCard(t, 10))
	assert.ErrorIs(t, err, ErrChallengeInProgress)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestGameService_StartChallengeRequiresRunningGame(t *testing.T) {
	g, err := NewGame(100, 100)
	require.NoError(t, err)
	svc := NewGameService(g, nil, zaptest.NewLogger(t))

	_, err = svc.StartChallenge(testChallengeCard(t, 30))
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestGameService_ChallengeOperationsWhilePaused(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.StartChallenge(testChallengeCard(t, 60))
	require.NoError(t, err)
	require.NoError(t, svc.SelectCardForChallenge(testLifeCard(t, "l1", 20)))
	require.NoError(t, svc.Game().Pause())

	// Every challenge operation is rejected before touching the aggregate
	err = svc.SelectCardForChallenge(testLifeCard(t, "l2", 10))
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	err = svc.DeselectCardForChallenge(testLifeCard(t, "l1", 20))
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	_, err = svc.ResolveChallenge()
	assert.ErrorIs(t, err, ErrInvalidStateTransition)

	// The challenge survives the pause untouched and resolves after resume
	require.NoError(t, svc.Game().Resume())
	current := svc.CurrentChallenge()
	require.NotNil(t, current)
	assert.True(t, current.IsInProgress())
	assert.Equal(t, 20, current.SelectedPower().Value())

	result, err := svc.ResolveChallenge()
	require.NoError(t, err)
	assert.False(t, result.IsSuccess())
	assert.Equal(t, 60, svc.Game().Vitality().Current())
	assert.Nil(t, svc.CurrentChallenge())
}

func TestGameService_SelectWithoutChallenge(t *testing.T) {
	svc := newTestService(t)

	err := svc.SelectCardForChallenge(testLifeCard(t, "l1", 10))
	assert.ErrorIs(t, err, ErrNoActiveChallenge)
	err = svc.DeselectCardForChallenge(testLifeCard(t, "l1", 10))
	assert.ErrorIs(t, err, ErrNoActiveChallenge)
	_, err = svc.ResolveChallenge()
	assert.ErrorIs(t, err, ErrNoActiveChallenge)
}

func TestGameService_ResolveSuccessNoDamage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.StartChallenge(testChallengeCard(t, 30))
	require.NoError(t, err)
	require.NoError(t, svc.SelectCardForChallenge(testLifeCard(t, "l1", 30)))

	result, err := svc.ResolveChallenge()
	require.NoError(t, err)
	assert.True(t, result.IsSuccess())
	assert.Equal(t, 100, svc.Game().Vitality().Current())
	assert.Nil(t, svc.CurrentChallenge())
	assert.Equal(t, 1, svc.Game().ChallengesWon())
}

// Scenario from the rulebook: vitality 100, term insurance with coverage 30
// and 5 turns, failed challenge 60 vs 20. The insurance absorbs 30 of the 40
// shortfall, vitality drops to 90, and the policy's term is untouched until
// the next turn.
func TestGameService_FailedChallengeRoutedThroughInsurance(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ActivateInsurance(testTermInsurance(t, 30, 10, 5))
	require.NoError(t, err)

	_, err = svc.StartChallenge(testChallengeCard(t, 60))
	require.NoError(t, err)
	require.NoError(t, svc.SelectCardForChallenge(testLifeCard(t, "l1", 20)))

	result, err := svc.ResolveChallenge()
	require.NoError(t, err)
	assert.False(t, result.IsSuccess())
	assert.Equal(t, 20, result.TotalPower())
	assert.Equal(t, 60, result.RequiredPower())
	assert.Equal(t, 40, result.Damage())

	assert.Equal(t, 90, svc.Game().Vitality().Current())
	assert.Equal(t, 1, svc.Game().ChallengesLost())

	insurances := svc.ActiveInsurances()
	require.Len(t, insurances, 1)
	remaining, hasTerm := insurances[0].RemainingTurns()
	assert.True(t, hasTerm)
	assert.Equal(t, 5, remaining, "turn not yet advanced")
	assert.Equal(t, 1, insurances[0].UsageCount())
	assert.Equal(t, 30, insurances[0].TotalDamageAbsorbed())
}

func TestGameService_AbsorptionOrderFirstActivatedFirstUsed(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.ActivateInsurance(testTermInsurance(t, 20, 5, 10))
	require.NoError(t, err)
	second, err := svc.ActivateInsurance(testTermInsurance(t, 30, 5, 10))
	require.NoError(t, err)

	_, err = svc.StartChallenge(testChallengeCard(t, 60))
	require.NoError(t, err)
	result, err := svc.ResolveChallenge()
	require.NoError(t, err)
	require.Equal(t, 60, result.Damage())

	// 60 - 20 - 30 = 10 residual to vitality
	assert.Equal(t, 90, svc.Game().Vitality().Current())
	assert.Equal(t, 20, first.TotalDamageAbsorbed())
	assert.Equal(t, 30, second.TotalDamageAbsorbed())
}

func TestGameService_AbsorptionOrderReversedChangesSecondAbsorber(t *testing.T) {
	svc := newTestService(t)

	// Reverse activation order: the 30-coverage policy takes damage first.
	first, err := svc.ActivateInsurance(testTermInsurance(t, 30, 5, 10))
	require.NoError(t, err)
	second, err := svc.ActivateInsurance(testTermInsurance(t, 20, 5, 10))
	require.NoError(t, err)

	_, err = svc.StartChallenge(testChallengeCard(t, 40))
	require.NoError(t, err)
	result, err := svc.ResolveChallenge()
	require.NoError(t, err)
	require.Equal(t, 40, result.Damage())

	assert.Equal(t, 30, first.TotalDamageAbsorbed())
	assert.Equal(t, 10, second.TotalDamageAbsorbed(), "second policy only sees the overflow")
	assert.Equal(t, 100, svc.Game().Vitality().Current())
}

func TestGameService_ChainStopsOnceAbsorbed(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ActivateInsurance(testTermInsurance(t, 50, 5, 10))
	require.NoError(t, err)
	untouched, err := svc.ActivateInsurance(testTermInsurance(t, 50, 5, 10))
	require.NoError(t, err)

	_, err = svc.StartChallenge(testChallengeCard(t, 40))
	require.NoError(t, err)
	_, err = svc.ResolveChallenge()
	require.NoError(t, err)

	assert.Equal(t, 0, untouched.UsageCount(), "fully absorbed damage must not touch later policies")
	assert.Equal(t, 100, svc.Game().Vitality().Current())
}

func TestGameService_NextTurnExpiresInsurance(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ActivateInsurance(testTermInsurance(t, 30, 10, 3))
	require.NoError(t, err)

	// Active through exactly 2 turn advances
	require.NoError(t, svc.NextTurn())
	require.NoError(t, svc.NextTurn())
	assert.Len(t, svc.ActiveInsurances(), 1)

	// Expired and removed after the 3rd
	require.NoError(t, svc.NextTurn())
	assert.Len(t, svc.ActiveInsurances(), 0)
}

func TestGameService_FiveTurnScenario(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ActivateInsurance(testTermInsurance(t, 30, 10, 5))
	require.NoError(t, err)

	_, err = svc.StartChallenge(testChallengeCard(t, 60))
	require.NoError(t, err)
	require.NoError(t, svc.SelectCardForChallenge(testLifeCard(t, "l1", 20)))
	_, err = svc.ResolveChallenge()
	require.NoError(t, err)
	require.Equal(t, 90, svc.Game().Vitality().Current())

	for i := 0; i < 4; i++ {
		require.NoError(t, svc.NextTurn())
		assert.Len(t, svc.ActiveInsurances(), 1, "turn advance %d", i+1)
	}
	require.NoError(t, svc.NextTurn())
	assert.Len(t, svc.ActiveInsurances(), 0, "expired after the 5th turn advance")
	assert.Equal(t, 6, svc.Game().Turn())
}

func TestGameService_NextTurnRemovesOnlyExpired(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ActivateInsurance(testTermInsurance(t, 10, 5, 1))
	require.NoError(t, err)
	wholeCard, err := NewInsuranceCard("", "Whole Life", 0, 8, 50, DurationWholeLife, 0, 0)
	require.NoError(t, err)
	whole, err := svc.ActivateInsurance(wholeCard)
	require.NoError(t, err)
	_, err = svc.ActivateInsurance(testTermInsurance(t, 20, 5, 1))
	require.NoError(t, err)
	longTerm, err := svc.ActivateInsurance(testTermInsurance(t, 30, 5, 9))
	require.NoError(t, err)

	require.NoError(t, svc.NextTurn())

	// Both 1-turn policies are gone; order of survivors is preserved
	active := svc.ActiveInsurances()
	require.Len(t, active, 2)
	assert.Equal(t, whole.ID(), active[0].ID())
	assert.Equal(t, longTerm.ID(), active[1].ID())
}

func TestGameService_ActivateInsuranceRejectsWrongKind(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ActivateInsurance(testLifeCard(t, "l1", 5))
	assert.ErrorIs(t, err, ErrInvalidCardKind)
	assert.Len(t, svc.ActiveInsurances(), 0)
}

func TestGameService_DamageCanEndGame(t *testing.T) {
	g, err := NewGame(10, 100)
	require.NoError(t, err)
	svc := NewGameService(g, NewEventBus(), zaptest.NewLogger(t))
	require.NoError(t, svc.StartGame())

	_, err = svc.StartChallenge(testChallengeCard(t, 50))
	require.NoError(t, err)
	_, err = svc.ResolveChallenge()
	require.NoError(t, err)

	assert.Equal(t, 0, svc.Game().Vitality().Current())
	assert.Equal(t, StatusGameOver, svc.Game().Status())

	// All further operations fail
	err = svc.NextTurn()
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	_, err = svc.StartChallenge(testChallengeCard(t, 10))
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestGameService_EventCollection(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ActivateInsurance(testTermInsurance(t, 30, 10, 5))
	require.NoError(t, err)
	_, err = svc.StartChallenge(testChallengeCard(t, 60))
	require.NoError(t, err)
	require.NoError(t, svc.SelectCardForChallenge(testLifeCard(t, "l1", 20)))
	_, err = svc.ResolveChallenge()
	require.NoError(t, err)

	var types []EventType
	for _, event := range svc.DomainEvents() {
		types = append(types, event.EventType())
	}
	assert.Equal(t, []EventType{
		EventInsuranceActivated,
		EventCardSelectedForChallenge,
		EventChallengeResolved,
		EventInsuranceUsed,
		EventVitalityChanged,
	}, types)

	svc.ClearDomainEvents()
	assert.Len(t, svc.DomainEvents(), 0)
}

func TestGameService_EventsReachPublisher(t *testing.T) {
	g, err := NewGame(100, 100)
	require.NoError(t, err)

	bus := NewEventBus()
	var published []EventType
	bus.Subscribe(func(event DomainEvent) {
		published = append(published, event.EventType())
	})

	svc := NewGameService(g, bus, zaptest.NewLogger(t))
	require.NoError(t, svc.StartGame())

	assert.Equal(t, []EventType{EventGameStarted}, published)
}

type panickingPublisher struct{}

func (panickingPublisher) Publish(DomainEvent) {
	panic("subscriber broke")
}

func TestGameService_PanickingPublisherDoesNotCorruptState(t *testing.T) {
	g, err := NewGame(100, 100)
	require.NoError(t, err)
	svc := NewGameService(g, panickingPublisher{}, zaptest.NewLogger(t))

	require.NoError(t, svc.StartGame())
	assert.Equal(t, StatusInProgress, svc.Game().Status())

	_, err = svc.StartChallenge(testChallengeCard(t, 60))
	require.NoError(t, err)
	_, err = svc.ResolveChallenge()
	require.NoError(t, err)

	// The committed state change survives the broken subscriber, and the
	// events are still collected.
	assert.Equal(t, 40, svc.Game().Vitality().Current())
	assert.NotEmpty(t, svc.DomainEvents())
}

func TestGameService_Snapshot(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ActivateInsurance(testTermInsurance(t, 30, 10, 5))
	require.NoError(t, err)
	_, err = svc.StartChallenge(testChallengeCard(t, 60))
	require.NoError(t, err)
	require.NoError(t, svc.SelectCardForChallenge(testLifeCard(t, "l1", 20)))

	snap := svc.Snapshot()
	assert.Equal(t, svc.Game().ID(), snap.GameID)
	assert.Equal(t, 100, snap.Vitality)
	assert.Equal(t, StageYouth, snap.Stage)
	assert.Equal(t, PhaseChallenge, snap.Phase)

	require.NotNil(t, snap.Challenge)
	assert.Equal(t, 60, snap.Challenge.RequiredPower)
	assert.Equal(t, 20, snap.Challenge.SelectedPower)
	assert.Equal(t, []string{"l1"}, snap.Challenge.SelectedCardIDs)

	require.Len(t, snap.Insurances, 1)
	assert.Equal(t, 30, snap.Insurances[0].Coverage)
	assert.Equal(t, 5, snap.Insurances[0].RemainingTurns)
	assert.True(t, snap.Insurances[0].HasRemainingTurns)
	assert.Equal(t, 10, snap.InsuranceBurden, "youth stage keeps the base premium")
}

func TestGameService_SnapshotBurdenFollowsStage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ActivateInsurance(testTermInsurance(t, 30, 10, 99))
	require.NoError(t, err)

	for svc.Game().Turn() < 10 {
		require.NoError(t, svc.NextTurn())
	}
	snap := svc.Snapshot()
	assert.Equal(t, StageMiddleAge, snap.Stage)
	assert.Equal(t, 12, snap.InsuranceBurden)
}

func TestGameService_ErrorsLeaveStateUnchanged(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.StartChallenge(testChallengeCard(t, 30))
	require.NoError(t, err)
	require.NoError(t, svc.SelectCardForChallenge(testLifeCard(t, "l1", 10)))
	svc.ClearDomainEvents()

	// Selecting a challenge card fails and emits nothing
	err = svc.SelectCardForChallenge(testChallengeCard(t, 5))
	require.True(t, errors.Is(err, ErrInvalidCardKind))
	assert.Len(t, svc.DomainEvents(), 0)
	assert.Equal(t, 10, svc.CurrentChallenge().SelectedPower().Value())
}
