package controller

import (
	"net/http"

	"schedule-assistant/core/controller"
	"schedule-assistant/core/errors"
	"schedule-assistant/modules/availability/dto"
	"schedule-assistant/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// AvailabilityController handles busy availability HTTP requests
type AvailabilityController struct {
	controller.BaseController
	AvailabilityService service.AvailabilityServiceInterface
}

// NewAvailabilityController creates a new controller
func NewAvailabilityController(svc service.AvailabilityServiceInterface) *AvailabilityController {
	return &AvailabilityController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
	}
}

// PostBusy handles POST /availability/busy
// @Summary Submit busy slots
// @Description Accept busy slot events and normalize them into merged RFC3339 intervals
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.BusyPayload true "Busy slot events"
// @Success 200 {object} dto.BusyResponse
// @Failure 400 {object} errors.AppError
// @Router /availability/busy [post]
func (c *AvailabilityController) PostBusy(ctx echo.Context) error {
	var payload dto.BusyPayload
	if err := ctx.Bind(&payload); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.Normalize(ctx.Request().Context(), &payload)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Busy availability normalized")
}

// GetBusy handles GET /availability/busy
// @Summary Latest busy snapshot
// @Description Retrieve the last normalized busy intervals
// @Tags Availability
// @Produce json
// @Success 200 {object} dto.BusyResponse
// @Failure 404 {object} errors.AppError
// @Router /availability/busy [get]
func (c *AvailabilityController) GetBusy(ctx echo.Context) error {
	result, appErr := c.AvailabilityService.Latest(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// DeleteBusy handles DELETE /availability/busy
// @Summary Clear busy snapshot
// @Description Remove all stored busy intervals
// @Tags Availability
// @Success 204
// @Router /availability/busy [delete]
func (c *AvailabilityController) DeleteBusy(ctx echo.Context) error {
	if appErr := c.AvailabilityService.Clear(ctx.Request().Context()); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}
