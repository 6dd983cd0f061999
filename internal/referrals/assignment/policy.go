// Package assignment implements the agent selection policy for referrals.
package assignment

import (
	"fmt"
	"strings"

	"usahudhomes_backend/internal/referrals/ports"
	"usahudhomes_backend/platform/apperr"
)

// Select picks the agent a consultation for the given US state should be
// referred to. Eligibility is is_active plus state coverage; the first match
// in the provided order wins, no scoring. Returns an unprocessable error when
// no active agent covers the state. Pure function, no side effects.
func Select(state string, agents []ports.AgentCandidate) (ports.AgentCandidate, error) {
	target := strings.ToUpper(strings.TrimSpace(state))
	if target == "" {
		return ports.AgentCandidate{}, apperr.BadRequest("consultation has no target state")
	}

	for _, agent := range agents {
		if !agent.IsActive {
			continue
		}
		if coversState(agent, target) {
			return agent, nil
		}
	}

	return ports.AgentCandidate{}, apperr.Unprocessable(
		fmt.Sprintf("no active agent covers state %s", target),
	)
}

func coversState(agent ports.AgentCandidate, state string) bool {
	for _, covered := range agent.StatesCovered {
		if strings.EqualFold(strings.TrimSpace(covered), state) {
			return true
		}
	}
	return false
}
