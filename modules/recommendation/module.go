package recommendation

import (
	"context"
	"time"

	"schedule-assistant/core/config"
	"schedule-assistant/core/logger"
	availStore "schedule-assistant/modules/availability/store"
	"schedule-assistant/modules/recommendation/controller"
	"schedule-assistant/modules/recommendation/llm"
	"schedule-assistant/modules/recommendation/prompts"
	"schedule-assistant/modules/recommendation/router"
	"schedule-assistant/modules/recommendation/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the recommendation module and registers routes
func Init(e *echo.Echo, st availStore.BusyStore) {
	cfg, ok := config.GetSafe()
	if !ok {
		logger.Error("Recommendation:Init:ConfigNotLoaded")
		return
	}

	var client llm.Client
	geminiClient, err := llm.NewGeminiClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		logger.Warn("Recommendation:Init:GeminiUnavailable", "error", err)
	} else {
		client = geminiClient
	}

	promptSource := prompts.NewSource(cfg.Recommendation.PromptsDir)

	svc := service.NewRecommendationService(
		st,
		client,
		promptSource,
		service.ParseStrategy(cfg.Recommendation.Strategy),
		cfg.Gemini.Model,
		cfg.Recommendation.DurationMinutes,
		cfg.Recommendation.WindowDays,
		time.Duration(cfg.Recommendation.ModelCallTimeoutSeconds)*time.Second,
	)
	ctrl := controller.NewRecommendationController(svc)
	rtr := router.NewRecommendationRouter(ctrl)

	rtr.Setup(e)
}
