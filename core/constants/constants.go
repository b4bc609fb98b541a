package constants

import "time"

// Timeouts
const (
	DefaultTimeout        = 30 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	ShutdownTimeout       = 10 * time.Second
)

// Server defaults
const (
	DefaultServerPort = 7070
	DefaultLogLevel   = "info"
)

// Recommendation defaults
const (
	DefaultGeminiModel              = "gemini-2.5-pro"
	DefaultMeetingDurationMinutes   = 60
	DefaultRecommendationWindowDays = 7
	DefaultModelCallTimeoutSeconds  = 30
	DefaultPromptsDir               = "modules/recommendation/prompts"
)

// Snapshot store
const (
	SnapshotStoreMemory = "memory"
	SnapshotStoreRedis  = "redis"
	SnapshotRedisKey    = "availability:latest_busy_response"
)

// Context keys
const (
	ContextRequestID = "request_id"
)
