package courseRoutes

import (
	controllers "github.com/tendai-dev/SLIZ/controllers/course"
	"github.com/tendai-dev/SLIZ/middleware"
	validators "github.com/tendai-dev/SLIZ/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the catalog, enrollment, quiz and dashboard routes
func SetupCourseRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Course catalog
	api.Get("/courses", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	api.Get("/courses/:id", middleware.JWTMiddleware, validators.CourseIDParam("id"), controllers.GetCourseDetails)

	// Enrollment
	api.Post("/enrollments", middleware.JWTMiddleware, validators.Enroll(), controllers.EnrollInCourse)
	api.Get("/enrollments/my", middleware.JWTMiddleware, controllers.GetMyEnrollments)

	// Quiz assessment, badges and certificates
	api.Get("/quiz/:courseId", middleware.JWTMiddleware, validators.CourseIDParam("courseId"), controllers.GetQuizQuestions)
	api.Post("/quiz/:courseId/submit", middleware.JWTMiddleware, validators.CourseIDParam("courseId"), validators.QuizSubmit(), controllers.SubmitQuiz)
	api.Get("/quiz-attempts", middleware.JWTMiddleware, controllers.GetQuizAttempts)
	api.Get("/badges", middleware.JWTMiddleware, controllers.GetUserBadges)
	api.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)

	// Dashboard
	api.Get("/dashboard/student", middleware.JWTMiddleware, controllers.GetStudentDashboard)
}
