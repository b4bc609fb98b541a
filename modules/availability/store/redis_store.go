package store

import (
	"context"
	"encoding/json"
	"errors"

	"schedule-assistant/core/cache"
	"schedule-assistant/core/constants"
	"schedule-assistant/core/logger"
	"schedule-assistant/modules/availability/dto"
)

// redisStore keeps the latest snapshot as one JSON blob in redis. It is still
// a single-slot store; only the most recent snapshot survives.
type redisStore struct {
	cache cache.Cache
}

func NewRedisStore(c cache.Cache) BusyStore {
	return &redisStore{cache: c}
}

func (s *redisStore) Put(ctx context.Context, response *dto.BusyResponse) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, constants.SnapshotRedisKey, string(payload), 0)
}

func (s *redisStore) Get(ctx context.Context) (*dto.BusyResponse, error) {
	payload, err := s.cache.Get(ctx, constants.SnapshotRedisKey)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}

	var response dto.BusyResponse
	if err := json.Unmarshal([]byte(payload), &response); err != nil {
		logger.Error("BusyStore:Redis:Unmarshal:Error", "error", err)
		return nil, err
	}
	return &response, nil
}

func (s *redisStore) Clear(ctx context.Context) error {
	return s.cache.Del(ctx, constants.SnapshotRedisKey)
}
