package availability

import (
	"schedule-assistant/modules/availability/controller"
	"schedule-assistant/modules/availability/router"
	"schedule-assistant/modules/availability/service"
	"schedule-assistant/modules/availability/store"

	"github.com/labstack/echo/v4"
)

// Init initializes the availability module and registers routes
func Init(e *echo.Echo, st store.BusyStore) {
	svc := service.NewAvailabilityService(st)
	ctrl := controller.NewAvailabilityController(svc)
	rtr := router.NewAvailabilityRouter(ctrl)

	rtr.Setup(e)
}
