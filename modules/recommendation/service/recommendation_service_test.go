package service

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"schedule-assistant/core/errors"
	availDto "schedule-assistant/modules/availability/dto"
	availStore "schedule-assistant/modules/availability/store"
	"schedule-assistant/modules/recommendation/dto"
	"schedule-assistant/modules/recommendation/llm"
	"schedule-assistant/modules/recommendation/prompts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

func newTestService(client llm.Client, st availStore.BusyStore, strategy Strategy, windowDays int) *RecommendationService {
	svc := NewRecommendationService(
		st,
		client,
		prompts.NewSource("../prompts"),
		strategy,
		"gemini-2.5-pro",
		60,
		windowDays,
		5*time.Second,
	)
	svc.enumerator.Now = func() time.Time { return testNow }
	return svc
}

func storeWithSnapshot(t *testing.T, intervals []availDto.BusyInterval) availStore.BusyStore {
	t.Helper()
	st := availStore.NewMemoryStore()
	require.NoError(t, st.Put(context.Background(), &availDto.BusyResponse{
		SnapshotID: "snap-1",
		Timezone:   "UTC",
		Intervals:  intervals,
		CreatedAt:  testNow,
	}))
	return st
}

const singleOptionReply = `{
	"message": "The noon slot works well.",
	"option": {"start": "2024-01-02T12:00:00Z", "end": "2024-01-02T13:00:00Z", "reason": "soonest open slot"}
}`

func TestRecommendRequiresSnapshot(t *testing.T) {
	mock := &llm.MockClient{Replies: []string{singleOptionReply}}
	svc := newTestService(mock, availStore.NewMemoryStore(), StrategyDualCall, 7)

	_, appErr := svc.Recommend(context.Background(), &dto.RecommendationRequest{Scenario: "weekly sync"})

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNoAvailability, appErr.Code)
	assert.Zero(t, mock.Calls(), "model must not be consulted without a snapshot")
}

func TestRecommendRequiresConfiguredClient(t *testing.T) {
	svc := newTestService(nil, storeWithSnapshot(t, nil), StrategyDualCall, 7)

	_, appErr := svc.Recommend(context.Background(), &dto.RecommendationRequest{Scenario: "weekly sync"})

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotConfigured, appErr.Code)
}

func TestRecommendRequiresTwoCandidates(t *testing.T) {
	mock := &llm.MockClient{Replies: []string{singleOptionReply}}
	svc := newTestService(mock, storeWithSnapshot(t, nil), StrategyDualCall, 0)

	_, appErr := svc.Recommend(context.Background(), &dto.RecommendationRequest{Scenario: "weekly sync"})

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInsufficientSlots, appErr.Code)
	assert.Zero(t, mock.Calls(), "model must not be consulted without enough candidates")
}

func TestRecommendDualCall(t *testing.T) {
	mock := &llm.MockClient{Replies: []string{singleOptionReply}}
	svc := newTestService(mock, storeWithSnapshot(t, nil), StrategyDualCall, 7)

	resp, appErr := svc.Recommend(context.Background(), &dto.RecommendationRequest{Scenario: "weekly sync"})

	require.Nil(t, appErr)
	assert.Equal(t, 2, mock.Calls())
	assert.Equal(t, DefaultRecommendationMessage, resp.Message)
	assert.Equal(t, "weekly sync", resp.Scenario)
	assert.Equal(t, "gemini-2.5-pro", resp.Model)
	assert.NotEmpty(t, resp.ID)

	require.Len(t, resp.Options, 2)
	assert.Equal(t, "option_a", resp.Options[0].ID)
	assert.Equal(t, "Option A", resp.Options[0].Label)
	assert.Equal(t, "option_b", resp.Options[1].ID)
	assert.Equal(t, "Option B", resp.Options[1].Label)
	assert.True(t, resp.Options[0].Start.Equal(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)))
}

func TestRecommendDualCallFailsWhenOneBranchFails(t *testing.T) {
	mock := &llm.MockClient{
		Replies: []string{singleOptionReply, singleOptionReply},
		Errs:    []error{nil, stderrors.New("deadline exceeded")},
	}
	svc := newTestService(mock, storeWithSnapshot(t, nil), StrategyDualCall, 7)

	_, appErr := svc.Recommend(context.Background(), &dto.RecommendationRequest{Scenario: "weekly sync"})

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUpstreamTransport, appErr.Code)
}

func TestRecommendDualCallRejectsFabricatedSlot(t *testing.T) {
	mock := &llm.MockClient{Replies: []string{`{
		"message": "How about next month?",
		"option": {"start": "2024-02-15T09:00:00Z", "end": "2024-02-15T10:00:00Z"}
	}`}}
	svc := newTestService(mock, storeWithSnapshot(t, nil), StrategyDualCall, 7)

	_, appErr := svc.Recommend(context.Background(), &dto.RecommendationRequest{Scenario: "weekly sync"})

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUpstreamContract, appErr.Code)
}

func TestRecommendDualCallNonJSONReplyIsTransport(t *testing.T) {
	mock := &llm.MockClient{Replies: []string{"noon sounds good to me"}}
	svc := newTestService(mock, storeWithSnapshot(t, nil), StrategyDualCall, 7)

	_, appErr := svc.Recommend(context.Background(), &dto.RecommendationRequest{Scenario: "weekly sync"})

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUpstreamTransport, appErr.Code)
}

func TestRecommendSingleCall(t *testing.T) {
	mock := &llm.MockClient{Replies: []string{`{
		"message": "Both of these keep your afternoon clear.",
		"options": [
			{"start": "2024-01-02T12:00:00Z", "end": "2024-01-02T13:00:00Z", "reason": "soonest"},
			{"start": "2024-01-02T14:30:00Z", "end": "2024-01-02T15:30:00Z", "reason": "after lunch"}
		]
	}`}}
	svc := newTestService(mock, storeWithSnapshot(t, nil), StrategySingleCall, 7)

	resp, appErr := svc.Recommend(context.Background(), &dto.RecommendationRequest{Scenario: "weekly sync"})

	require.Nil(t, appErr)
	assert.Equal(t, 1, mock.Calls())
	assert.Equal(t, "Both of these keep your afternoon clear.", resp.Message)
	require.Len(t, resp.Options, 2)
	assert.Equal(t, "Option 1", resp.Options[0].Label)
	assert.Equal(t, "option_2", resp.Options[1].ID)
	assert.Equal(t, "after lunch", resp.Options[1].Reason)
}

func TestRecommendAvoidsBusySlots(t *testing.T) {
	busy := []availDto.BusyInterval{
		{EventID: "standup", Start: "2024-01-02T12:00:00Z", End: "2024-01-02T13:00:00Z", Source: availDto.SourceUser},
	}
	mock := &llm.MockClient{Replies: []string{singleOptionReply}}
	svc := newTestService(mock, storeWithSnapshot(t, busy), StrategyDualCall, 7)

	// The mocked reply picks 12:00, which now collides with a busy
	// interval and is therefore not a candidate.
	_, appErr := svc.Recommend(context.Background(), &dto.RecommendationRequest{Scenario: "weekly sync"})

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUpstreamContract, appErr.Code)
}

func TestParseStrategy(t *testing.T) {
	assert.Equal(t, StrategySingleCall, ParseStrategy("single_call"))
	assert.Equal(t, StrategyDualCall, ParseStrategy("dual_call"))
	assert.Equal(t, StrategyDualCall, ParseStrategy(""))
	assert.Equal(t, StrategyDualCall, ParseStrategy("something_else"))
}
