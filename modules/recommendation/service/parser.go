package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"schedule-assistant/core/errors"
	"schedule-assistant/core/logger"
	"schedule-assistant/modules/recommendation/dto"
	"schedule-assistant/modules/recommendation/entity"

	"github.com/gosimple/slug"
)

// decodePayload parses the raw model reply as JSON. A reply that is not valid
// JSON counts as an upstream transport failure, not a contract violation: the
// model was asked for JSON output at the API level.
func decodePayload(raw string) (any, *errors.AppError) {
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		logger.Error("RecommendationService:DecodePayload:InvalidJSON", "error", err, "raw", raw)
		return nil, errors.NewAppError(errors.ErrUpstreamTransport, "Model response was not valid JSON", err)
	}
	return payload, nil
}

// parseOptionObject validates one option object field by field: start/end must
// be ISO-8601 strings with a UTC offset, and the resulting "start|end" key
// must exactly match a computed candidate. No fuzzy matching.
func parseOptionObject(
	raw any,
	candidates map[string]entity.CandidateSlot,
	optionID string,
	optionLabel string,
) (*dto.RecommendationOption, error) {
	object, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("option payload is not a JSON object")
	}

	startStr, ok := object["start"].(string)
	if !ok {
		return nil, fmt.Errorf("option payload is missing a start timestamp")
	}
	endStr, ok := object["end"].(string)
	if !ok {
		return nil, fmt.Errorf("option payload is missing an end timestamp")
	}

	start, err := parseOffsetTimestamp(startStr)
	if err != nil {
		return nil, fmt.Errorf("option start: %w", err)
	}
	end, err := parseOffsetTimestamp(endStr)
	if err != nil {
		return nil, fmt.Errorf("option end: %w", err)
	}

	key := start.Format(time.RFC3339) + "|" + end.Format(time.RFC3339)
	if _, found := candidates[key]; !found {
		return nil, fmt.Errorf("option (%s) did not match any available slot", optionLabel)
	}

	reason, _ := object["reason"].(string)

	return &dto.RecommendationOption{
		ID:     optionID,
		Label:  optionLabel,
		Start:  start,
		End:    end,
		Reason: reason,
	}, nil
}

// parseOffsetTimestamp parses an ISO-8601 timestamp and rejects values that
// omit the UTC offset.
func parseOffsetTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t, nil
	}
	if _, bareErr := time.Parse("2006-01-02T15:04:05", value); bareErr == nil {
		return time.Time{}, fmt.Errorf("timestamp %q is missing a timezone offset", value)
	}
	return time.Time{}, fmt.Errorf("timestamp %q is not a valid ISO datetime", value)
}

// extractSingleOption handles the one-option reply shape: a descriptive
// message plus an "option" object (an "options" array is tolerated, its first
// entry is used). The caller supplies id and label for the option slot.
func extractSingleOption(
	payload any,
	candidates map[string]entity.CandidateSlot,
	optionID string,
	optionLabel string,
) (string, *dto.RecommendationOption, *errors.AppError) {
	object, ok := payload.(map[string]any)
	if !ok {
		return "", nil, errors.NewAppError(errors.ErrUpstreamContract, "Model response payload must be a JSON object", nil)
	}

	message, ok := object["message"].(string)
	if !ok || strings.TrimSpace(message) == "" {
		return "", nil, errors.NewAppError(errors.ErrUpstreamContract, "Model response is missing a descriptive message", nil)
	}

	optionPayload := object["option"]
	if optionPayload == nil {
		if optionsPayload, isList := object["options"].([]any); isList && len(optionsPayload) > 0 {
			optionPayload = optionsPayload[0]
		}
	}
	if optionPayload == nil {
		return "", nil, errors.NewAppError(errors.ErrUpstreamContract, "Model response did not include an option", nil)
	}

	option, err := parseOptionObject(optionPayload, candidates, optionID, optionLabel)
	if err != nil {
		return "", nil, errors.NewAppError(errors.ErrUpstreamContract, "Model option was not usable: "+err.Error(), err)
	}

	return strings.TrimSpace(message), option, nil
}

// extractOptionPair handles the two-option reply shape: a descriptive message
// plus an "options" array. Each entry is validated independently; invalid
// entries are logged and skipped, but at least two must survive.
func extractOptionPair(
	payload any,
	candidates map[string]entity.CandidateSlot,
) (string, []dto.RecommendationOption, *errors.AppError) {
	object, ok := payload.(map[string]any)
	if !ok {
		return "", nil, errors.NewAppError(errors.ErrUpstreamContract, "Model response payload must be a JSON object", nil)
	}

	message, ok := object["message"].(string)
	if !ok || strings.TrimSpace(message) == "" {
		return "", nil, errors.NewAppError(errors.ErrUpstreamContract, "Model response is missing a descriptive message", nil)
	}

	optionsPayload, ok := object["options"].([]any)
	if !ok || len(optionsPayload) == 0 {
		return "", nil, errors.NewAppError(errors.ErrUpstreamContract, "Model response did not include an options list", nil)
	}

	options := make([]dto.RecommendationOption, 0, 2)
	for i, raw := range optionsPayload {
		label := optionLabelFromPayload(raw, i)
		id := optionIDFromLabel(raw, label)

		option, err := parseOptionObject(raw, candidates, id, label)
		if err != nil {
			logger.Warn("RecommendationService:ExtractOptionPair:SkippingOption", "index", i, "error", err)
			continue
		}
		options = append(options, *option)
		if len(options) == 2 {
			break
		}
	}

	if len(options) < 2 {
		return "", nil, errors.NewAppError(errors.ErrUpstreamContract, "Model response did not include two usable options", nil)
	}

	return strings.TrimSpace(message), options, nil
}

// optionLabelFromPayload reads the option's own label, defaulting to
// "Option N" by position.
func optionLabelFromPayload(raw any, index int) string {
	if object, ok := raw.(map[string]any); ok {
		if label, ok := object["label"].(string); ok && strings.TrimSpace(label) != "" {
			return strings.TrimSpace(label)
		}
	}
	return fmt.Sprintf("Option %d", index+1)
}

// optionIDFromLabel reads the option's own id, defaulting to an
// underscore-separated slug of the label.
func optionIDFromLabel(raw any, label string) string {
	if object, ok := raw.(map[string]any); ok {
		if id, ok := object["id"].(string); ok && strings.TrimSpace(id) != "" {
			return strings.TrimSpace(id)
		}
	}
	return strings.ReplaceAll(slug.Make(label), "-", "_")
}
