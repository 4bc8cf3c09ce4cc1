package models

import (
	"fmt"
	"strings"
)

// SchedulingState is the closed set of scheduling lifecycle states. The
// backend stores free text, so reads may carry any casing; writes always use
// the canonical constants below.
type SchedulingState string

const (
	SchedulingStateCreated           SchedulingState = "Created"
	SchedulingStateActive            SchedulingState = "Active"
	SchedulingStatePendingToActivate SchedulingState = "PendingToActivate"
	SchedulingStateCanceled          SchedulingState = "Canceled"
)

// AllSchedulingStates lists every canonical state.
var AllSchedulingStates = []SchedulingState{
	SchedulingStateCreated,
	SchedulingStateActive,
	SchedulingStatePendingToActivate,
	SchedulingStateCanceled,
}

// ParseSchedulingState maps any casing (and the "cancelled" spelling) onto a
// canonical state.
func ParseSchedulingState(raw string) (SchedulingState, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "created":
		return SchedulingStateCreated, nil
	case "active":
		return SchedulingStateActive, nil
	case "pendingtoactivate":
		return SchedulingStatePendingToActivate, nil
	case "canceled", "cancelled":
		return SchedulingStateCanceled, nil
	default:
		return "", fmt.Errorf("unknown scheduling state %q", raw)
	}
}

// Canonical returns the canonical form of s, or s unchanged when unknown.
func (s SchedulingState) Canonical() SchedulingState {
	if c, err := ParseSchedulingState(string(s)); err == nil {
		return c
	}
	return s
}

// StateFilterVariants expands a state filter into every spelling stored
// rows may use: the raw value, its lowercase and Capitalized forms, plus
// the camel-case and British-spelling families for the two states known to
// have been written inconsistently. Order is stable and duplicates removed.
func StateFilterVariants(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	lower := strings.ToLower(raw)
	variants := []string{raw, lower, strings.ToUpper(lower[:1]) + lower[1:]}

	switch lower {
	case "pendingtoactivate":
		variants = append(variants, "pendingToActivate", "PendingToActivate")
	case "canceled", "cancelled":
		variants = append(variants,
			"canceled", "Canceled", "CANCELED",
			"cancelled", "Cancelled", "CANCELLED",
		)
	}

	seen := make(map[string]struct{}, len(variants))
	out := variants[:0]
	for _, v := range variants {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
