package entity

import "time"

// CandidateSlot is a computed, conflict-free [start, end) meeting slot.
// Identity is structural: two slots are the same candidate iff their exact
// start and end timestamps match.
type CandidateSlot struct {
	Start time.Time
	End   time.Time
}

// Key returns the "start|end" RFC3339 lookup key used to reconcile model
// output against the candidate set.
func (s CandidateSlot) Key() string {
	return s.Start.Format(time.RFC3339) + "|" + s.End.Format(time.RFC3339)
}
