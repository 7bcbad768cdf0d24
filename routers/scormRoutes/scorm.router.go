package scormRoutes

import (
	controllers "github.com/tendai-dev/SLIZ/controllers/course"
	"github.com/tendai-dev/SLIZ/middleware"
	validators "github.com/tendai-dev/SLIZ/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupScormRoutes sets up the SCORM launch, runtime bridge and progress
// reconciliation routes
func SetupScormRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Launch resolution for the player iframe
	api.Get("/courses/:courseId/launch", middleware.JWTMiddleware, validators.CourseIDParam("courseId"), controllers.GetCourseLaunch)

	scormGroup := api.Group("/scorm", middleware.JWTMiddleware)

	// Telemetry
	scormGroup.Post("/launch", validators.ScormLaunch(), controllers.RecordScormLaunch)
	scormGroup.Post("/close", validators.ScormClose(), controllers.RecordScormClose)

	// Core reconciliation write
	scormGroup.Post("/progress", validators.ScormProgress(), controllers.UpdateScormProgress)

	// Runtime bridge sessions for the player adapter
	scormGroup.Post("/rte/open", validators.RTEOpen(), controllers.OpenRTESession)
	scormGroup.Post("/rte/:sessionId", validators.RTECall(), controllers.CallRTESession)
	scormGroup.Post("/rte/:sessionId/close", controllers.CloseRTESession)

	// Admin re-sync of the package directory
	api.Post("/admin/scorm/sync", middleware.JWTMiddleware, middleware.RequireRole("admin"), controllers.TriggerScormSync)
}
