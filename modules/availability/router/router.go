package router

import (
	"schedule-assistant/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

// AvailabilityRouter handles availability routes
type AvailabilityRouter struct {
	AvailabilityController *controller.AvailabilityController
}

// NewAvailabilityRouter creates a new router
func NewAvailabilityRouter(availabilityController *controller.AvailabilityController) *AvailabilityRouter {
	return &AvailabilityRouter{
		AvailabilityController: availabilityController,
	}
}

// Setup registers availability routes
func (r *AvailabilityRouter) Setup(e *echo.Echo) {
	v1 := e.Group("/api/v1")
	busyRoutes := v1.Group("/availability")

	busyRoutes.POST("/busy", r.AvailabilityController.PostBusy)
	busyRoutes.GET("/busy", r.AvailabilityController.GetBusy)
	busyRoutes.DELETE("/busy", r.AvailabilityController.DeleteBusy)
}
