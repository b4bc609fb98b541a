package service

import (
	"encoding/json"
	"testing"
	"time"

	"schedule-assistant/core/errors"
	"schedule-assistant/modules/recommendation/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCandidates(t *testing.T) map[string]entity.CandidateSlot {
	t.Helper()
	slots := []entity.CandidateSlot{
		{
			Start: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 1, 2, 13, 0, 0, 0, time.UTC),
		},
		{
			Start: time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC),
			End:   time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC),
		},
	}
	candidates := make(map[string]entity.CandidateSlot, len(slots))
	for _, slot := range slots {
		candidates[slot.Key()] = slot
	}
	return candidates
}

func mustDecode(t *testing.T, raw string) any {
	t.Helper()
	var payload any
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return payload
}

func TestDecodePayload(t *testing.T) {
	t.Run("valid JSON", func(t *testing.T) {
		payload, appErr := decodePayload(`{"message": "hi"}`)
		require.Nil(t, appErr)
		assert.NotNil(t, payload)
	})

	t.Run("malformed JSON is a transport failure", func(t *testing.T) {
		_, appErr := decodePayload(`Sure! Here is my pick: 12pm works`)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrUpstreamTransport, appErr.Code)
	})
}

func TestParseOffsetTimestamp(t *testing.T) {
	t.Run("accepts offset timestamps", func(t *testing.T) {
		got, err := parseOffsetTimestamp("2024-01-02T12:00:00Z")
		require.NoError(t, err)
		assert.True(t, got.Equal(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)))
	})

	t.Run("rejects bare local timestamps", func(t *testing.T) {
		_, err := parseOffsetTimestamp("2024-01-02T12:00:00")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing a timezone offset")
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := parseOffsetTimestamp("tomorrow at noon")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid ISO datetime")
	})
}

func TestExtractSingleOption(t *testing.T) {
	candidates := testCandidates(t)

	t.Run("valid reply", func(t *testing.T) {
		payload := mustDecode(t, `{
			"message": "The noon slot keeps your afternoon free.  ",
			"option": {"start": "2024-01-02T12:00:00Z", "end": "2024-01-02T13:00:00Z", "reason": "clear morning"}
		}`)

		message, option, appErr := extractSingleOption(payload, candidates, "option_a", "Option A")
		require.Nil(t, appErr)
		assert.Equal(t, "The noon slot keeps your afternoon free.", message)
		assert.Equal(t, "option_a", option.ID)
		assert.Equal(t, "Option A", option.Label)
		assert.Equal(t, "clear morning", option.Reason)
		assert.True(t, option.Start.Equal(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)))
	})

	t.Run("options array fallback uses the first entry", func(t *testing.T) {
		payload := mustDecode(t, `{
			"message": "Noon works.",
			"options": [{"start": "2024-01-02T12:00:00Z", "end": "2024-01-02T13:00:00Z"}]
		}`)

		_, option, appErr := extractSingleOption(payload, candidates, "option_b", "Option B")
		require.Nil(t, appErr)
		assert.Equal(t, "option_b", option.ID)
		assert.Empty(t, option.Reason)
	})

	t.Run("missing message", func(t *testing.T) {
		payload := mustDecode(t, `{
			"option": {"start": "2024-01-02T12:00:00Z", "end": "2024-01-02T13:00:00Z"}
		}`)

		_, _, appErr := extractSingleOption(payload, candidates, "option_a", "Option A")
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrUpstreamContract, appErr.Code)
	})

	t.Run("blank message", func(t *testing.T) {
		payload := mustDecode(t, `{
			"message": "   ",
			"option": {"start": "2024-01-02T12:00:00Z", "end": "2024-01-02T13:00:00Z"}
		}`)

		_, _, appErr := extractSingleOption(payload, candidates, "option_a", "Option A")
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrUpstreamContract, appErr.Code)
	})

	t.Run("fabricated slot is a contract violation", func(t *testing.T) {
		payload := mustDecode(t, `{
			"message": "How about this instead?",
			"option": {"start": "2024-01-02T12:15:00Z", "end": "2024-01-02T13:15:00Z"}
		}`)

		_, _, appErr := extractSingleOption(payload, candidates, "option_a", "Option A")
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrUpstreamContract, appErr.Code)
	})

	t.Run("missing offset is a contract violation", func(t *testing.T) {
		payload := mustDecode(t, `{
			"message": "Noon works.",
			"option": {"start": "2024-01-02T12:00:00", "end": "2024-01-02T13:00:00"}
		}`)

		_, _, appErr := extractSingleOption(payload, candidates, "option_a", "Option A")
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrUpstreamContract, appErr.Code)
	})

	t.Run("payload not an object", func(t *testing.T) {
		_, _, appErr := extractSingleOption(mustDecode(t, `["not", "an", "object"]`), candidates, "option_a", "Option A")
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrUpstreamContract, appErr.Code)
	})
}

func TestExtractOptionPair(t *testing.T) {
	candidates := testCandidates(t)

	t.Run("two valid options", func(t *testing.T) {
		payload := mustDecode(t, `{
			"message": "Two good choices.",
			"options": [
				{"id": "noon", "label": "Noon", "start": "2024-01-02T12:00:00Z", "end": "2024-01-02T13:00:00Z", "reason": "early"},
				{"start": "2024-01-02T14:30:00Z", "end": "2024-01-02T15:30:00Z"}
			]
		}`)

		message, options, appErr := extractOptionPair(payload, candidates)
		require.Nil(t, appErr)
		assert.Equal(t, "Two good choices.", message)
		require.Len(t, options, 2)
		assert.Equal(t, "noon", options[0].ID)
		assert.Equal(t, "Noon", options[0].Label)
		assert.Equal(t, "Option 2", options[1].Label)
		assert.Equal(t, "option_2", options[1].ID)
	})

	t.Run("invalid entry skipped when a later one is valid", func(t *testing.T) {
		payload := mustDecode(t, `{
			"message": "Best I could find.",
			"options": [
				{"start": "2024-01-02T12:00:00Z", "end": "2024-01-02T13:00:00Z"},
				{"start": "bogus", "end": "2024-01-02T15:30:00Z"},
				{"start": "2024-01-02T14:30:00Z", "end": "2024-01-02T15:30:00Z"}
			]
		}`)

		_, options, appErr := extractOptionPair(payload, candidates)
		require.Nil(t, appErr)
		require.Len(t, options, 2)
		assert.True(t, options[1].Start.Equal(time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)))
	})

	t.Run("fewer than two usable options", func(t *testing.T) {
		payload := mustDecode(t, `{
			"message": "Only one fits.",
			"options": [
				{"start": "2024-01-02T12:00:00Z", "end": "2024-01-02T13:00:00Z"},
				{"start": "2024-01-02T22:00:00Z", "end": "2024-01-02T23:00:00Z"}
			]
		}`)

		_, _, appErr := extractOptionPair(payload, candidates)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrUpstreamContract, appErr.Code)
	})

	t.Run("missing options list", func(t *testing.T) {
		_, _, appErr := extractOptionPair(mustDecode(t, `{"message": "nothing here"}`), candidates)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrUpstreamContract, appErr.Code)
	})
}

func TestOptionLabelAndIDDefaults(t *testing.T) {
	t.Run("label default by position", func(t *testing.T) {
		assert.Equal(t, "Option 1", optionLabelFromPayload(map[string]any{}, 0))
		assert.Equal(t, "Option 3", optionLabelFromPayload("not an object", 2))
	})

	t.Run("id derived from label", func(t *testing.T) {
		assert.Equal(t, "morning_pick", optionIDFromLabel(map[string]any{}, "Morning Pick"))
		assert.Equal(t, "option_2", optionIDFromLabel(nil, "Option 2"))
	})

	t.Run("derived id survives punctuation and accents", func(t *testing.T) {
		assert.Equal(t, "fruh_morgens", optionIDFromLabel(map[string]any{}, "Früh Morgens!"))
		assert.Equal(t, "tuesday_9am", optionIDFromLabel(nil, "Tuesday, 9am"))
	})

	t.Run("explicit values win", func(t *testing.T) {
		raw := map[string]any{"id": " pick-1 ", "label": " Morning "}
		label := optionLabelFromPayload(raw, 0)
		assert.Equal(t, "Morning", label)
		assert.Equal(t, "pick-1", optionIDFromLabel(raw, label))
	})
}
