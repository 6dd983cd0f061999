package assignment

import (
	"testing"

	"usahudhomes_backend/internal/referrals/ports"
	"usahudhomes_backend/platform/apperr"

	"github.com/google/uuid"
)

func candidate(name string, active bool, states ...string) ports.AgentCandidate {
	return ports.AgentCandidate{
		ID:            uuid.New(),
		Name:          name,
		IsActive:      active,
		StatesCovered: states,
	}
}

func TestSelect_FirstMatchWins(t *testing.T) {
	agents := []ports.AgentCandidate{
		candidate("first", true, "NC", "SC"),
		candidate("second", true, "NC"),
	}

	chosen, err := Select("NC", agents)
	if err != nil {
		t.Fatalf("expected a match, got %v", err)
	}
	if chosen.Name != "first" {
		t.Fatalf("expected first matching agent, got %q", chosen.Name)
	}
}

func TestSelect_SkipsInactiveAgents(t *testing.T) {
	agents := []ports.AgentCandidate{
		candidate("inactive", false, "NC"),
		candidate("active", true, "NC"),
	}

	chosen, err := Select("NC", agents)
	if err != nil {
		t.Fatalf("expected a match, got %v", err)
	}
	if chosen.Name != "active" {
		t.Fatalf("expected inactive agent to be skipped, got %q", chosen.Name)
	}
}

func TestSelect_NoCoverage(t *testing.T) {
	agents := []ports.AgentCandidate{
		candidate("east-coast", true, "NC", "VA"),
	}

	_, err := Select("WY", agents)
	if !apperr.Is(err, apperr.KindUnprocessable) {
		t.Fatalf("expected unprocessable error, got %v", err)
	}
}

func TestSelect_CaseInsensitiveState(t *testing.T) {
	agents := []ports.AgentCandidate{
		candidate("agent", true, "nc"),
	}

	if _, err := Select("NC", agents); err != nil {
		t.Fatalf("expected case-insensitive match, got %v", err)
	}
	if _, err := Select(" nc ", agents); err != nil {
		t.Fatalf("expected trimmed match, got %v", err)
	}
}

func TestSelect_Deterministic(t *testing.T) {
	agents := []ports.AgentCandidate{
		candidate("a", true, "TX"),
		candidate("b", true, "TX"),
		candidate("c", true, "TX"),
	}

	first, err := Select("TX", agents)
	if err != nil {
		t.Fatalf("expected a match, got %v", err)
	}

	for i := 0; i < 10; i++ {
		again, err := Select("TX", agents)
		if err != nil {
			t.Fatalf("expected a match on repeat call, got %v", err)
		}
		if again.ID != first.ID {
			t.Fatalf("expected the same agent on every call, got %s then %s", first.ID, again.ID)
		}
	}
}

func TestSelect_EmptyState(t *testing.T) {
	_, err := Select("  ", nil)
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request error, got %v", err)
	}
}
