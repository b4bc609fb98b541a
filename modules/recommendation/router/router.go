package router

import (
	"schedule-assistant/modules/recommendation/controller"

	"github.com/labstack/echo/v4"
)

// RecommendationRouter handles recommendation routes
type RecommendationRouter struct {
	RecommendationController *controller.RecommendationController
}

// NewRecommendationRouter creates a new router
func NewRecommendationRouter(recommendationController *controller.RecommendationController) *RecommendationRouter {
	return &RecommendationRouter{
		RecommendationController: recommendationController,
	}
}

// Setup registers recommendation routes
func (r *RecommendationRouter) Setup(e *echo.Echo) {
	v1 := e.Group("/api/v1")
	v1.POST("/recommendations", r.RecommendationController.PostRecommendations)
}
