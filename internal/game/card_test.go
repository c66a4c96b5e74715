package game

import (
	"errors"
	"testing"
)

func TestNewLifeCard_Validation(t *testing.T) {
	if _, err := NewLifeCard("c1", "Part-time Job", -1, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for negative power, got %v", err)
	}
	if _, err := NewLifeCard("c1", "", 5, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for empty name, got %v", err)
	}
	if _, err := NewLifeCard("c1", "Part-time Job", 5, -1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for negative cost, got %v", err)
	}

	card, err := NewLifeCard("c1", "Part-time Job", 5, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Kind() != KindLife {
		t.Errorf("expected kind life, got %s", card.Kind())
	}
	if card.Power().Value() != 5 {
		t.Errorf("expected power 5, got %d", card.Power().Value())
	}
}

func TestNewCard_GeneratesIDWhenEmpty(t *testing.T) {
	a, _ := NewLifeCard("", "First", 1, 0)
	b, _ := NewLifeCard("", "Second", 1, 0)
	if a.ID() == "" || b.ID() == "" {
		t.Fatal("expected generated ids")
	}
	if a.ID() == b.ID() {
		t.Error("expected distinct generated ids")
	}
}

func TestNewInsuranceCard_Validation(t *testing.T) {
	if _, err := NewInsuranceCard("i1", "Medical", 0, 5, -1, DurationTerm, 3, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for negative coverage, got %v", err)
	}
	if _, err := NewInsuranceCard("i1", "Medical", 0, 5, 30, DurationTerm, -1, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for negative remaining turns, got %v", err)
	}
	if _, err := NewInsuranceCard("i1", "Medical", 0, 5, 30, "forever", 0, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for unknown duration, got %v", err)
	}

	card, err := NewInsuranceCard("i1", "Medical", 0, 5, 30, DurationTerm, 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !card.IsTerm() {
		t.Error("expected term policy")
	}
	if card.Coverage().Value() != 30 {
		t.Errorf("expected coverage 30, got %d", card.Coverage().Value())
	}
}

func TestNewInsuranceCard_WholeLifeIgnoresTurns(t *testing.T) {
	card, err := NewInsuranceCard("i1", "Whole Life", 0, 8, 50, DurationWholeLife, 99, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.RemainingTurns() != 0 {
		t.Errorf("expected whole-life turns to normalize to 0, got %d", card.RemainingTurns())
	}
}

func TestInsuranceCard_WithRemainingTurns(t *testing.T) {
	card, _ := NewInsuranceCard("i1", "Medical", 0, 5, 30, DurationTerm, 3, 0)

	adjusted, err := card.WithRemainingTurns(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adjusted.RemainingTurns() != 1 {
		t.Errorf("expected 1, got %d", adjusted.RemainingTurns())
	}
	// Original stays untouched
	if card.RemainingTurns() != 3 {
		t.Errorf("expected original to keep 3, got %d", card.RemainingTurns())
	}

	whole, _ := NewInsuranceCard("i2", "Whole Life", 0, 5, 30, DurationWholeLife, 0, 0)
	if _, err := whole.WithRemainingTurns(2); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("expected ErrInvalidStateTransition for whole-life, got %v", err)
	}
}
