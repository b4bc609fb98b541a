package service

import (
	"context"
	"sort"
	"time"

	"schedule-assistant/core/errors"
	"schedule-assistant/core/logger"
	"schedule-assistant/modules/availability/dto"
	"schedule-assistant/modules/availability/store"

	"github.com/google/uuid"
)

// AvailabilityService normalizes busy slot events and owns the latest
// snapshot via the busy store.
type AvailabilityService struct {
	store store.BusyStore
}

// AvailabilityServiceInterface defines the service contract
type AvailabilityServiceInterface interface {
	Normalize(ctx context.Context, payload *dto.BusyPayload) (*dto.BusyResponse, *errors.AppError)
	Latest(ctx context.Context) (*dto.BusyResponse, *errors.AppError)
	Clear(ctx context.Context) *errors.AppError
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(st store.BusyStore) AvailabilityServiceInterface {
	return &AvailabilityService{store: st}
}

// ResolveTimezone loads the named IANA zone, falling back to UTC on any
// failure. It never returns an error; the only side effect is logging.
func ResolveTimezone(name string) *time.Location {
	if name == "" {
		name = "UTC"
	}
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc
	}
	logger.Warn("AvailabilityService:ResolveTimezone:Unknown", "timezone", name, "error", err)

	loc, err = time.LoadLocation("UTC")
	if err != nil {
		logger.Warn("AvailabilityService:ResolveTimezone:UTCDataUnavailable", "error", err)
		return time.UTC
	}
	return loc
}

// slotIndexToTime converts a zero-based slot index on a calendar date into an
// absolute timestamp in the given zone.
func slotIndexToTime(date time.Time, slotIndex int, slotsPerHour int, loc *time.Location) time.Time {
	minutesPerSlot := 60 / slotsPerHour
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return startOfDay.Add(time.Duration(slotIndex*minutesPerSlot) * time.Minute)
}

// SlotEventToInterval converts one slot event into an absolute busy interval.
// The event date must already be validated as YYYY-MM-DD.
func SlotEventToInterval(event *dto.SlotEvent, timezone string) dto.BusyInterval {
	loc := ResolveTimezone(timezone)
	date, _ := time.ParseInLocation("2006-01-02", event.Date, loc)

	start := slotIndexToTime(date, event.StartTimeIndex, event.SlotsPerHour, loc)
	end := slotIndexToTime(date, event.EndTimeIndex, event.SlotsPerHour, loc)

	logger.Debug("AvailabilityService:SlotEventToInterval",
		"event_id", event.ID,
		"start", start.Format(time.RFC3339),
		"end", end.Format(time.RFC3339),
		"timezone", timezone,
	)

	return dto.BusyInterval{
		EventID: event.ID,
		Start:   start.Format(time.RFC3339),
		End:     end.Format(time.RFC3339),
		Source:  dto.SourceUser,
	}
}

// MergeOverlapping merges overlapping or touching same-source intervals in a
// single left-to-right pass over the (start, end)-sorted input. A new interval
// only ever merges into the most recent merged entry; two same-source
// intervals separated by a different-source interval in sort order stay
// separate even when they overlap. Merging keeps the earlier interval's event
// id and start. Inputs are not mutated.
func MergeOverlapping(intervals []dto.BusyInterval) []dto.BusyInterval {
	if len(intervals) == 0 {
		return []dto.BusyInterval{}
	}

	sorted := make([]dto.BusyInterval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := []dto.BusyInterval{sorted[0]}
	for _, current := range sorted[1:] {
		last := &merged[len(merged)-1]
		if current.Start <= last.End && current.Source == last.Source {
			if current.End > last.End {
				logger.Debug("AvailabilityService:MergeOverlapping:Merge",
					"last_start", last.Start, "last_end", last.End,
					"current_start", current.Start, "current_end", current.End,
				)
				last.End = current.End
			}
		} else {
			merged = append(merged, current)
		}
	}

	return merged
}

// Normalize converts the payload's slot events into merged busy intervals and
// replaces the stored snapshot wholesale.
func (s *AvailabilityService) Normalize(ctx context.Context, payload *dto.BusyPayload) (*dto.BusyResponse, *errors.AppError) {
	timezone := payload.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	logger.Info("AvailabilityService:Normalize", "timezone", timezone, "events", len(payload.Events))

	for i := range payload.Events {
		if appErr := payload.Events[i].Validate(); appErr != nil {
			return nil, appErr
		}
	}

	intervals := make([]dto.BusyInterval, 0, len(payload.Events))
	for i := range payload.Events {
		intervals = append(intervals, SlotEventToInterval(&payload.Events[i], timezone))
	}

	mergedIntervals := MergeOverlapping(intervals)
	logger.Info("AvailabilityService:Normalize:Merged",
		"raw", len(intervals), "merged", len(mergedIntervals))

	response := &dto.BusyResponse{
		SnapshotID: uuid.New().String(),
		Timezone:   timezone,
		Intervals:  mergedIntervals,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.Put(ctx, response); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to store busy snapshot", err)
	}

	return response, nil
}

// Latest returns the stored snapshot, or a not-found error when none exists.
func (s *AvailabilityService) Latest(ctx context.Context) (*dto.BusyResponse, *errors.AppError) {
	snapshot, err := s.store.Get(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to read busy snapshot", err)
	}
	if snapshot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "No busy availability has been submitted yet", nil)
	}
	return snapshot, nil
}

// Clear removes the stored snapshot.
func (s *AvailabilityService) Clear(ctx context.Context) *errors.AppError {
	if err := s.store.Clear(ctx); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to clear busy snapshot", err)
	}
	return nil
}
