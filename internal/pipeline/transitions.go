// Package pipeline implements the application state machine and the
// drag-and-drop board that drives it.
//
// Valid status graph:
//
//	applied ──► interview ──► offered
//	   │            │            │
//	   └────────────┴────────────┴──► rejected
//
// rejected is terminal. A transition to the same status is always permitted
// and is treated as a metadata-only update.
package pipeline

import "github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/model"

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[model.ApplicationStatus][]model.ApplicationStatus{
	model.StatusApplied:   {model.StatusInterview, model.StatusRejected},
	model.StatusInterview: {model.StatusOffered, model.StatusRejected},
	model.StatusOffered:   {model.StatusRejected},
	// rejected is terminal, no outgoing transitions
}

// IsTransitionAllowed returns true when moving from → to is permitted by the
// state machine. Same-status moves are not part of the transition table; the
// state machine treats them separately.
func IsTransitionAllowed(from, to model.ApplicationStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidNextStatuses returns the successor set of a status. The result is a
// copy; it is empty for rejected.
func ValidNextStatuses(from model.ApplicationStatus) []model.ApplicationStatus {
	allowed := validTransitions[from]
	out := make([]model.ApplicationStatus, len(allowed))
	copy(out, allowed)
	return out
}
