package dto

import (
	"time"

	"schedule-assistant/core/errors"
)

// IntervalSource tags where a busy interval came from. Intervals with
// different sources are never merged together.
type IntervalSource string

const (
	SourceUser    IntervalSource = "user"
	SourceBackend IntervalSource = "backend"
)

// ===================== Request DTOs =====================

// SlotEvent is a user-submitted busy marker expressed in slot indices.
// slots_per_hour is expected to divide 60 evenly (1, 2, 4, ...); other values
// produce truncated minute boundaries.
type SlotEvent struct {
	ID             string `json:"id"`
	Date           string `json:"date"` // YYYY-MM-DD
	StartTimeIndex int    `json:"start_time_index"`
	EndTimeIndex   int    `json:"end_time_index"`
	SlotsPerHour   int    `json:"slots_per_hour"`
}

// Validate checks the structural constraints of a slot event.
func (e *SlotEvent) Validate() *errors.AppError {
	if e.ID == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "event id is required", nil)
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "event date must be YYYY-MM-DD", err)
	}
	if e.StartTimeIndex < 0 {
		return errors.NewAppError(errors.ErrInvalidInput, "start_time_index must be non-negative", nil)
	}
	if e.EndTimeIndex <= e.StartTimeIndex {
		return errors.NewAppError(errors.ErrInvalidInput, "end_time_index must be greater than start_time_index", nil)
	}
	if e.SlotsPerHour <= 0 {
		return errors.NewAppError(errors.ErrInvalidInput, "slots_per_hour must be positive", nil)
	}
	return nil
}

// BusyPayload carries the busy slot events for one normalization call.
type BusyPayload struct {
	Timezone string      `json:"timezone"`
	Events   []SlotEvent `json:"events"`
}

// ===================== Response DTOs =====================

// BusyInterval is a normalized half-open [start, end) busy span. Start and
// end are RFC3339 timestamps carrying the UTC offset of the request timezone.
type BusyInterval struct {
	EventID string         `json:"event_id"`
	Start   string         `json:"start"`
	End     string         `json:"end"`
	Source  IntervalSource `json:"source"`
}

// BusyResponse is the latest normalized availability snapshot.
type BusyResponse struct {
	SnapshotID string         `json:"snapshot_id"`
	Timezone   string         `json:"timezone"`
	Intervals  []BusyInterval `json:"intervals"`
	CreatedAt  time.Time      `json:"created_at"`
}
