package domain

import (
	"testing"
	"time"
)

func ts(offset time.Duration) *time.Time {
	t := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(offset)
	return &t
}

func TestStatus_DerivedFromTimestamps(t *testing.T) {
	cases := []struct {
		name string
		c    Consultation
		want Status
	}{
		{"no timestamps", Consultation{}, StatusUnassigned},
		{"assigned only", Consultation{AssignedAt: ts(0), ReferralExpiresAt: ts(ReferralWindow)}, StatusReferred},
		{"accepted", Consultation{AssignedAt: ts(0), ReferralExpiresAt: ts(ReferralWindow), AcceptedAt: ts(time.Hour)}, StatusAccepted},
		{"declined", Consultation{AssignedAt: ts(0), ReferralExpiresAt: ts(ReferralWindow), DeclinedAt: ts(time.Hour)}, StatusDeclined},
		{"expired", Consultation{AssignedAt: ts(0), ReferralExpiresAt: ts(ReferralWindow), ExpiredAt: ts(49 * time.Hour)}, StatusExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.Status(); got != tc.want {
				t.Fatalf("expected status %q, got %q", tc.want, got)
			}
		})
	}
}

func TestStatus_OutcomeDoesNotAffectLifecycle(t *testing.T) {
	c := Consultation{
		AssignedAt: ts(0),
		AcceptedAt: ts(time.Hour),
		Outcome:    "sold",
	}
	if got := c.Status(); got != StatusAccepted {
		t.Fatalf("expected accepted regardless of outcome, got %q", got)
	}
}

func TestTargetState_PrefersLinkedProperty(t *testing.T) {
	c := Consultation{
		State:    "NC",
		Property: &PropertySummary{State: "GA"},
	}
	if got := c.TargetState(); got != "GA" {
		t.Fatalf("expected property state to win, got %q", got)
	}

	c.Property = nil
	if got := c.TargetState(); got != "NC" {
		t.Fatalf("expected fallback to consultation state, got %q", got)
	}
}
