package controller

import (
	"schedule-assistant/core/controller"
	"schedule-assistant/core/errors"
	"schedule-assistant/modules/recommendation/dto"
	"schedule-assistant/modules/recommendation/service"

	"github.com/labstack/echo/v4"
)

// RecommendationController handles recommendation HTTP requests
type RecommendationController struct {
	controller.BaseController
	RecommendationService service.RecommendationServiceInterface
}

// NewRecommendationController creates a new controller
func NewRecommendationController(svc service.RecommendationServiceInterface) *RecommendationController {
	return &RecommendationController{
		BaseController:        controller.NewBaseController(),
		RecommendationService: svc,
	}
}

// PostRecommendations handles POST /recommendations
// @Summary Recommend meeting times
// @Description Propose meeting-time options that avoid the stored busy intervals
// @Tags Recommendation
// @Accept json
// @Produce json
// @Param request body dto.RecommendationRequest true "Recommendation request"
// @Success 200 {object} dto.RecommendationResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Failure 502 {object} errors.AppError
// @Router /recommendations [post]
func (c *RecommendationController) PostRecommendations(ctx echo.Context) error {
	var req dto.RecommendationRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	if appErr := req.Validate(); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	result, appErr := c.RecommendationService.Recommend(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Recommendations generated")
}
