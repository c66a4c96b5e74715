package server

import (
	"fmt"
	"time"

	"github.com/shishihs/insurance-self-game-sub010/internal/game"
)

// Request is one JSON command from a client.
type Request struct {
	Action   string       `json:"action"`
	Card     *CardPayload `json:"card,omitempty"`
	Password string       `json:"password,omitempty"`
}

// Supported actions.
const (
	ActionAuth              = "auth"
	ActionStartGame         = "start_game"
	ActionStartChallenge    = "start_challenge"
	ActionSelectCard        = "select_card"
	ActionDeselectCard      = "deselect_card"
	ActionResolveChallenge  = "resolve_challenge"
	ActionActivateInsurance = "activate_insurance"
	ActionNextTurn          = "next_turn"
	ActionGetState          = "get_state"
)

// CardPayload is the wire shape of a card, matching the UI contract:
// {id, name, kind, power, cost, coverage?, durationType?, remainingTurns?}.
type CardPayload struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	Power          int    `json:"power"`
	Cost           int    `json:"cost"`
	Coverage       int    `json:"coverage,omitempty"`
	DurationType   string `json:"durationType,omitempty"`
	RemainingTurns int    `json:"remainingTurns,omitempty"`
	AgeBonus       int    `json:"ageBonus,omitempty"`
}

// toCard converts a payload into the matching card variant.
func (p *CardPayload) toCard() (game.Card, error) {
	if p == nil {
		return nil, fmt.Errorf("card is required")
	}
	switch game.CardKind(p.Kind) {
	case game.KindLife:
		return game.NewLifeCard(p.ID, p.Name, p.Power, p.Cost)
	case game.KindChallenge:
		return game.NewChallengeCard(p.ID, p.Name, p.Power, p.Cost)
	case game.KindInsurance:
		duration := game.DurationKind(p.DurationType)
		if duration == "" {
			duration = game.DurationWholeLife
		}
		return game.NewInsuranceCard(p.ID, p.Name, p.Power, p.Cost, p.Coverage,
			duration, p.RemainingTurns, p.AgeBonus)
	default:
		return nil, fmt.Errorf("unknown card kind %q", p.Kind)
	}
}

// EventPayload wraps one drained domain event for the client.
type EventPayload struct {
	Type string           `json:"type"`
	At   time.Time        `json:"at"`
	Data game.DomainEvent `json:"data"`
}

// Response is one JSON reply to a client.
type Response struct {
	Type   string         `json:"type"` // state, error, auth_ok
	Error  string         `json:"error,omitempty"`
	State  *game.Snapshot `json:"state,omitempty"`
	Events []EventPayload `json:"events,omitempty"`
}

func errorResponse(err error) Response {
	return Response{Type: "error", Error: err.Error()}
}

func wrapEvents(events []game.DomainEvent) []EventPayload {
	if len(events) == 0 {
		return nil
	}
	out := make([]EventPayload, len(events))
	for i, event := range events {
		out[i] = EventPayload{
			Type: string(event.EventType()),
			At:   event.OccurredAt(),
			Data: event,
		}
	}
	return out
}
