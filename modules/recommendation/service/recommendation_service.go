package service

import (
	"context"
	"fmt"
	"time"

	"schedule-assistant/core/errors"
	"schedule-assistant/core/logger"
	"schedule-assistant/core/utils"
	availStore "schedule-assistant/modules/availability/store"
	"schedule-assistant/modules/recommendation/dto"
	"schedule-assistant/modules/recommendation/entity"
	"schedule-assistant/modules/recommendation/llm"
	"schedule-assistant/modules/recommendation/prompts"

	"golang.org/x/sync/errgroup"
)

// Strategy selects how the model is consulted for the two options.
type Strategy string

const (
	// StrategyDualCall issues two concurrent single-option calls, one prompt
	// variant each.
	StrategyDualCall Strategy = "dual_call"
	// StrategySingleCall issues one call that returns both options.
	StrategySingleCall Strategy = "single_call"
)

// ParseStrategy maps a config value onto a Strategy, defaulting to dual_call.
func ParseStrategy(value string) Strategy {
	if Strategy(value) == StrategySingleCall {
		return StrategySingleCall
	}
	return StrategyDualCall
}

// DefaultRecommendationMessage is the summary used by the dual-call strategy.
const DefaultRecommendationMessage = "Here are two meeting options that fit your availability."

const (
	promptOptionA = "recommend_option_a"
	promptOptionB = "recommend_option_b"
	promptPair    = "recommend_pair"
)

// RecommendationService composes candidate enumeration, prompt construction,
// the model call fan-out and reply reconciliation.
type RecommendationService struct {
	store      availStore.BusyStore
	llm        llm.Client
	prompts    *prompts.Source
	enumerator *SlotEnumerator

	strategy        Strategy
	modelName       string
	durationMinutes int
	windowDays      int
	callTimeout     time.Duration
}

// RecommendationServiceInterface defines the service contract
type RecommendationServiceInterface interface {
	Recommend(ctx context.Context, req *dto.RecommendationRequest) (*dto.RecommendationResponse, *errors.AppError)
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(
	st availStore.BusyStore,
	client llm.Client,
	promptSource *prompts.Source,
	strategy Strategy,
	modelName string,
	durationMinutes int,
	windowDays int,
	callTimeout time.Duration,
) *RecommendationService {
	return &RecommendationService{
		store:           st,
		llm:             client,
		prompts:         promptSource,
		enumerator:      NewSlotEnumerator(),
		strategy:        strategy,
		modelName:       modelName,
		durationMinutes: durationMinutes,
		windowDays:      windowDays,
		callTimeout:     callTimeout,
	}
}

// Recommend runs the full pipeline for one request. No model call is made
// before the busy snapshot and candidate checks pass.
func (s *RecommendationService) Recommend(ctx context.Context, req *dto.RecommendationRequest) (*dto.RecommendationResponse, *errors.AppError) {
	snapshot, err := s.store.Get(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to read busy snapshot", err)
	}
	if snapshot == nil {
		return nil, errors.NewAppError(errors.ErrNoAvailability,
			"No busy availability submitted. Please mark busy slots in the calendar first.", nil)
	}
	if s.llm == nil {
		return nil, errors.NewAppError(errors.ErrNotConfigured, "Gemini API key is not configured", nil)
	}

	tzName := req.Timezone
	if tzName == "" {
		tzName = snapshot.Timezone
	}
	if tzName == "" {
		tzName = "UTC"
	}

	candidates := s.enumerator.Enumerate(snapshot.Intervals, tzName, s.durationMinutes, s.windowDays)
	if len(candidates) < 2 {
		return nil, errors.NewAppError(errors.ErrInsufficientSlots,
			fmt.Sprintf("Not enough available slots within the next %d days to recommend a meeting", s.windowDays), nil)
	}

	candidateKeys := make(map[string]entity.CandidateSlot, len(candidates))
	for _, slot := range candidates {
		candidateKeys[slot.Key()] = slot
	}

	userPrompt := buildUserPrompt(req.Scenario, tzName, candidates, req.Conversation, req.PreviousOptions)
	logger.Info("RecommendationService:Recommend",
		"strategy", string(s.strategy), "candidates", len(candidates), "timezone", tzName)

	var (
		message string
		options []dto.RecommendationOption
		appErr  *errors.AppError
	)
	switch s.strategy {
	case StrategySingleCall:
		message, options, appErr = s.recommendSingleCall(ctx, userPrompt, candidateKeys)
	default:
		message, options, appErr = s.recommendDualCall(ctx, userPrompt, candidateKeys)
	}
	if appErr != nil {
		return nil, appErr
	}

	return &dto.RecommendationResponse{
		ID:        utils.GenerateID(),
		Scenario:  req.Scenario,
		Message:   message,
		Options:   options,
		Model:     s.modelName,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// recommendDualCall fans out two single-option model calls concurrently.
// Submission order (Option A, then Option B) is preserved in the result
// regardless of completion order; either failure fails the request. Whether
// the two options must be distinct slots is deliberately not enforced.
func (s *RecommendationService) recommendDualCall(
	ctx context.Context,
	userPrompt string,
	candidateKeys map[string]entity.CandidateSlot,
) (string, []dto.RecommendationOption, *errors.AppError) {
	systemPromptA, appErr := s.loadPrompt(promptOptionA)
	if appErr != nil {
		return "", nil, appErr
	}
	systemPromptB, appErr := s.loadPrompt(promptOptionB)
	if appErr != nil {
		return "", nil, appErr
	}

	calls := []struct {
		systemPrompt string
		optionID     string
		optionLabel  string
	}{
		{systemPromptA, "option_a", "Option A"},
		{systemPromptB, "option_b", "Option B"},
	}

	results := make([]*dto.RecommendationOption, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	for i, call := range calls {
		g.Go(func() error {
			_, option, appErr := s.invokeSingle(gctx, call.systemPrompt, userPrompt, candidateKeys, call.optionID, call.optionLabel)
			if appErr != nil {
				return appErr
			}
			results[i] = option
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", nil, asAppError(err)
	}

	return DefaultRecommendationMessage,
		[]dto.RecommendationOption{*results[0], *results[1]},
		nil
}

// recommendSingleCall issues one model call that must return both options in
// a single payload; the model's own message is used in the response.
func (s *RecommendationService) recommendSingleCall(
	ctx context.Context,
	userPrompt string,
	candidateKeys map[string]entity.CandidateSlot,
) (string, []dto.RecommendationOption, *errors.AppError) {
	systemPrompt, appErr := s.loadPrompt(promptPair)
	if appErr != nil {
		return "", nil, appErr
	}

	payload, appErr := s.complete(ctx, systemPrompt, userPrompt)
	if appErr != nil {
		return "", nil, appErr
	}

	return extractOptionPair(payload, candidateKeys)
}

// invokeSingle runs one model call and reconciles its reply as a single
// option.
func (s *RecommendationService) invokeSingle(
	ctx context.Context,
	systemPrompt string,
	userPrompt string,
	candidateKeys map[string]entity.CandidateSlot,
	optionID string,
	optionLabel string,
) (string, *dto.RecommendationOption, *errors.AppError) {
	payload, appErr := s.complete(ctx, systemPrompt, userPrompt)
	if appErr != nil {
		return "", nil, appErr
	}
	return extractSingleOption(payload, candidateKeys, optionID, optionLabel)
}

// complete performs one bounded model call and decodes its JSON reply.
func (s *RecommendationService) complete(ctx context.Context, systemPrompt, userPrompt string) (any, *errors.AppError) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	raw, err := s.llm.Complete(callCtx, systemPrompt, userPrompt)
	if err != nil {
		logger.Error("RecommendationService:Complete:Error", "error", err, "model", s.modelName)
		return nil, errors.NewAppError(errors.ErrUpstreamTransport, "Model service failed to return recommendations", err)
	}

	return decodePayload(raw)
}

func (s *RecommendationService) loadPrompt(name string) (string, *errors.AppError) {
	text, err := s.prompts.Load(name)
	if err != nil {
		logger.Error("RecommendationService:LoadPrompt:Error", "error", err, "prompt", name)
		return "", errors.NewAppError(errors.ErrInternalServer,
			fmt.Sprintf("System prompt %q could not be loaded", name), err)
	}
	return text, nil
}

func asAppError(err error) *errors.AppError {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr
	}
	return errors.NewAppError(errors.ErrInternalServer, "Recommendation request failed", err)
}
