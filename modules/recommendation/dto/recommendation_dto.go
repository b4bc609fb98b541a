package dto

import (
	"time"

	"schedule-assistant/core/errors"
)

// ===================== Request DTOs =====================

// ConversationTurn is one read-only turn of prior conversation context.
type ConversationTurn struct {
	Role    string `json:"role"` // system | user | assistant
	Content string `json:"content"`
}

// RecommendationOption is one proposed meeting time. Start and end always
// correspond exactly to a candidate slot computed for the request.
type RecommendationOption struct {
	ID     string    `json:"id"`
	Label  string    `json:"label"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Reason string    `json:"reason"`
}

// RecommendationRequest asks for meeting-time recommendations for a scenario.
type RecommendationRequest struct {
	Scenario        string                 `json:"scenario"`
	Conversation    []ConversationTurn     `json:"conversation"`
	Timezone        string                 `json:"timezone"`
	PreviousOptions []RecommendationOption `json:"previousOptions"`
}

// Validate checks the structural constraints of a recommendation request.
func (r *RecommendationRequest) Validate() *errors.AppError {
	if r.Scenario == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "scenario is required", nil)
	}
	for _, turn := range r.Conversation {
		switch turn.Role {
		case "system", "user", "assistant":
		default:
			return errors.NewAppError(errors.ErrInvalidInput, "conversation role must be system, user or assistant", nil)
		}
	}
	return nil
}

// ===================== Response DTOs =====================

// RecommendationResponse carries the final recommended options.
type RecommendationResponse struct {
	ID        string                 `json:"id"`
	Scenario  string                 `json:"scenario"`
	Message   string                 `json:"message"`
	Options   []RecommendationOption `json:"options"`
	Model     string                 `json:"model"`
	CreatedAt time.Time              `json:"createdAt"`
}
