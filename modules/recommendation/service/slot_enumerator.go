package service

import (
	"sort"
	"time"

	"schedule-assistant/core/logger"
	availDto "schedule-assistant/modules/availability/dto"
	availService "schedule-assistant/modules/availability/service"
	"schedule-assistant/modules/recommendation/entity"
)

const (
	// SlotIncrementMinutes is the fixed step between candidate starts.
	SlotIncrementMinutes = 30
	// MaxCandidateSlots caps how many candidates one request enumerates.
	MaxCandidateSlots = 168
)

// SlotEnumerator generates the ordered list of conflict-free candidate slots
// within a look-ahead window.
type SlotEnumerator struct {
	IncrementMinutes int
	MaxSlots         int

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewSlotEnumerator creates an enumerator with default settings
func NewSlotEnumerator() *SlotEnumerator {
	return &SlotEnumerator{
		IncrementMinutes: SlotIncrementMinutes,
		MaxSlots:         MaxCandidateSlots,
		Now:              time.Now,
	}
}

type busySpan struct {
	start time.Time
	end   time.Time
}

// parseBusySpans converts stored intervals into concrete spans in the target
// zone. Intervals whose timestamps fail to parse are logged and skipped.
func parseBusySpans(intervals []availDto.BusyInterval, loc *time.Location) []busySpan {
	spans := make([]busySpan, 0, len(intervals))
	for _, interval := range intervals {
		start, errStart := time.Parse(time.RFC3339, interval.Start)
		end, errEnd := time.Parse(time.RFC3339, interval.End)
		if errStart != nil || errEnd != nil {
			logger.Warn("SlotEnumerator:SkippingInvalidInterval",
				"event_id", interval.EventID, "start", interval.Start, "end", interval.End)
			continue
		}
		spans = append(spans, busySpan{start: start.In(loc), end: end.In(loc)})
	}
	sort.Slice(spans, func(i, j int) bool {
		return spans[i].start.Before(spans[j].start)
	})
	return spans
}

// roundUpToIncrement advances t to the next increment boundary measured from
// local midnight. A time already exactly on a boundary is unchanged.
func roundUpToIncrement(t time.Time, minutes int) time.Time {
	incrementSeconds := minutes * 60
	secondsSinceMidnight := t.Hour()*3600 + t.Minute()*60 + t.Second()
	remainder := secondsSinceMidnight % incrementSeconds

	if remainder == 0 && t.Nanosecond() == 0 {
		return t
	}

	adjustment := time.Duration(incrementSeconds-remainder) * time.Second
	return t.Add(adjustment - time.Duration(t.Nanosecond())*time.Nanosecond)
}

// overlaps reports whether [start, end) intersects [busyStart, busyEnd).
// Touching boundaries do not conflict.
func overlaps(start, end, busyStart, busyEnd time.Time) bool {
	return start.Before(busyEnd) && end.After(busyStart)
}

// Enumerate produces candidate slots between now and now+windowDays: starts
// strictly increasing on increment boundaries, each slot exactly
// durationMinutes long and contained in a single calendar day, none
// overlapping a busy span, at most MaxSlots emitted.
func (se *SlotEnumerator) Enumerate(
	busyIntervals []availDto.BusyInterval,
	tzName string,
	durationMinutes int,
	windowDays int,
) []entity.CandidateSlot {
	loc := availService.ResolveTimezone(tzName)
	now := se.Now().In(loc)
	windowEnd := now.AddDate(0, 0, windowDays)
	busySpans := parseBusySpans(busyIntervals, loc)

	duration := time.Duration(durationMinutes) * time.Minute
	increment := time.Duration(se.IncrementMinutes) * time.Minute
	cursor := roundUpToIncrement(now, se.IncrementMinutes)

	candidates := []entity.CandidateSlot{}
	for !cursor.Add(duration).After(windowEnd) {
		candidateEnd := cursor.Add(duration)

		// A slot may not cross midnight; keep stepping within the day.
		cy, cm, cd := cursor.Date()
		ey, em, ed := candidateEnd.Date()
		if cy != ey || cm != em || cd != ed {
			cursor = cursor.Add(increment)
			continue
		}

		conflict := false
		for _, span := range busySpans {
			if overlaps(cursor, candidateEnd, span.start, span.end) {
				conflict = true
				break
			}
		}

		if !conflict {
			candidates = append(candidates, entity.CandidateSlot{Start: cursor, End: candidateEnd})
			if len(candidates) >= se.MaxSlots {
				break
			}
		}

		cursor = cursor.Add(increment)
	}

	return candidates
}
