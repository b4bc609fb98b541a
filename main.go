package main

import (
	"schedule-assistant/core/logger"
	"schedule-assistant/core/server"
)

// @title Schedule Assistant API
// @version 1.0
// @description Backend service for busy-slot availability and AI meeting recommendations

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
