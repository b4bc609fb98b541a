package service

import (
	"fmt"
	"strings"

	"schedule-assistant/modules/recommendation/dto"
	"schedule-assistant/modules/recommendation/entity"
)

const (
	slotDisplayLayout        = "Monday, January 02 · 03:04 PM"
	slotEndDisplayLayout     = "03:04 PM"
	optionStartDisplayLayout = "Jan 02, 2006 · 03:04 PM"
	isoLayout                = "2006-01-02T15:04:05Z07:00"
)

// formatSlotsForPrompt renders the numbered candidate list. The bracketed ISO
// timestamps are what the model must echo back verbatim.
func formatSlotsForPrompt(slots []entity.CandidateSlot, tzName string) string {
	if len(slots) == 0 {
		return "No available slots within the requested window."
	}

	lines := make([]string, 0, len(slots))
	for i, slot := range slots {
		lines = append(lines, fmt.Sprintf("%d. %s - %s (%s) [%s → %s]",
			i+1,
			slot.Start.Format(slotDisplayLayout),
			slot.End.Format(slotEndDisplayLayout),
			tzName,
			slot.Start.Format(isoLayout),
			slot.End.Format(isoLayout),
		))
	}
	return strings.Join(lines, "\n")
}

// conversationToBullets renders prior turns as a bullet list, omitting blank
// turns.
func conversationToBullets(conversation []dto.ConversationTurn) string {
	lines := make([]string, 0, len(conversation))
	for _, turn := range conversation {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", capitalize(turn.Role), content))
	}

	if len(lines) == 0 {
		return "No previous conversation."
	}
	return strings.Join(lines, "\n")
}

// formatPreviousOptions renders previously offered options so the model can
// avoid repeating them.
func formatPreviousOptions(options []dto.RecommendationOption) string {
	if len(options) == 0 {
		return "None provided yet."
	}

	lines := make([]string, 0, len(options))
	for _, option := range options {
		line := fmt.Sprintf("- %s: %s – %s",
			option.Label,
			option.Start.Format(optionStartDisplayLayout),
			option.End.Format(slotEndDisplayLayout),
		)
		if option.Reason != "" {
			line += " – " + option.Reason
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// buildUserPrompt assembles the full user prompt for one model call.
func buildUserPrompt(
	scenario string,
	tzName string,
	slots []entity.CandidateSlot,
	conversation []dto.ConversationTurn,
	previousOptions []dto.RecommendationOption,
) string {
	var b strings.Builder

	b.WriteString("Scenario:\n")
	b.WriteString(strings.TrimSpace(scenario))
	b.WriteString("\n\nTimezone: ")
	b.WriteString(tzName)
	b.WriteString("\n\nAvailable Slots (ISO timestamps provided in brackets):\n")
	b.WriteString(formatSlotsForPrompt(slots, tzName))
	b.WriteString("\n\nPrevious Recommendations:\n")
	b.WriteString(formatPreviousOptions(previousOptions))
	b.WriteString("\n\nRecent Conversation:\n")
	b.WriteString(conversationToBullets(conversation))
	b.WriteString("\n\nSelect only from the numbered list above. Use the ISO timestamps in brackets, copied verbatim, when forming the JSON response.\n")

	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
