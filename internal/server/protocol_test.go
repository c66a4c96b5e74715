package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shishihs/insurance-self-game-sub010/internal/game"
)

func TestCardPayload_ToCardLife(t *testing.T) {
	payload := &CardPayload{ID: "l1", Name: "Morning Run", Kind: "life", Power: 10}

	card, err := payload.toCard()
	require.NoError(t, err)
	assert.Equal(t, game.KindLife, card.Kind())
	assert.Equal(t, "l1", card.ID())
	assert.Equal(t, 10, card.Power().Value())
}

func TestCardPayload_ToCardChallenge(t *testing.T) {
	payload := &CardPayload{ID: "c1", Name: "Job Interview", Kind: "challenge", Power: 40}

	card, err := payload.toCard()
	require.NoError(t, err)
	assert.Equal(t, game.KindChallenge, card.Kind())
	assert.Equal(t, 40, card.Power().Value())
}

func TestCardPayload_ToCardInsurance(t *testing.T) {
	payload := &CardPayload{
		ID:             "i1",
		Name:           "Medical Insurance",
		Kind:           "insurance",
		Cost:           10,
		Coverage:       30,
		DurationType:   "term",
		RemainingTurns: 5,
	}

	card, err := payload.toCard()
	require.NoError(t, err)
	insurance, ok := card.(*game.InsuranceCard)
	require.True(t, ok)
	assert.Equal(t, 30, insurance.Coverage().Value())
	assert.Equal(t, game.DurationTerm, insurance.Duration())
	assert.Equal(t, 5, insurance.RemainingTurns())
	assert.Equal(t, 10, insurance.Cost())
}

func TestCardPayload_InsuranceDefaultsToWholeLife(t *testing.T) {
	payload := &CardPayload{ID: "i1", Name: "Life Insurance", Kind: "insurance", Coverage: 50}

	card, err := payload.toCard()
	require.NoError(t, err)
	insurance := card.(*game.InsuranceCard)
	assert.Equal(t, game.DurationWholeLife, insurance.Duration())
}

func TestCardPayload_UnknownKind(t *testing.T) {
	payload := &CardPayload{ID: "x", Name: "X", Kind: "artifact"}
	_, err := payload.toCard()
	assert.Error(t, err)
}

func TestCardPayload_NilCard(t *testing.T) {
	var payload *CardPayload
	_, err := payload.toCard()
	assert.Error(t, err)
}

func TestRequest_Decode(t *testing.T) {
	raw := `{"action":"select_card","card":{"id":"l1","name":"Study","kind":"life","power":15}}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	assert.Equal(t, ActionSelectCard, req.Action)
	require.NotNil(t, req.Card)
	assert.Equal(t, "Study", req.Card.Name)
	assert.Equal(t, 15, req.Card.Power)
}

func TestWrapEvents(t *testing.T) {
	assert.Nil(t, wrapEvents(nil))

	now := time.Now()
	events := []game.DomainEvent{
		game.GameStarted{GameID: "g1", Vitality: 100, Timestamp: now},
		game.TurnAdvanced{GameID: "g1", Turn: 2, Timestamp: now},
	}

	wrapped := wrapEvents(events)
	require.Len(t, wrapped, 2)
	assert.Equal(t, string(game.EventGameStarted), wrapped[0].Type)
	assert.Equal(t, now, wrapped[0].At)
	assert.Equal(t, string(game.EventTurnAdvanced), wrapped[1].Type)

	// The whole envelope serializes cleanly
	data, err := json.Marshal(Response{Type: "state", Events: wrapped})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"state"`)
	assert.Contains(t, string(data), string(game.EventGameStarted))
}

func TestErrorResponse(t *testing.T) {
	resp := errorResponse(game.ErrNoActiveChallenge)
	assert.Equal(t, "error", resp.Type)
	assert.Equal(t, game.ErrNoActiveChallenge.Error(), resp.Error)
}
