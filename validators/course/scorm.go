package courseValidators

import (
	"github.com/tendai-dev/SLIZ/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ScormLaunchRequest is the launch telemetry payload
type ScormLaunchRequest struct {
	CourseID  string `json:"courseId" validate:"required"`
	LaunchURL string `json:"launchUrl"`
}

// ScormProgressRequest is the bridge-reported state snapshot. Progress is
// deliberately unvalidated beyond type: the reconciler applies whatever the
// bridge reported (last-write-wins policy).
type ScormProgressRequest struct {
	CourseID        string            `json:"courseId" validate:"required"`
	Progress        int               `json:"progress"`
	ScormData       map[string]string `json:"scormData"`
	Completed       bool              `json:"completed"`
	CurrentLocation string            `json:"currentLocation"`
	SuspendData     string            `json:"suspendData"`
}

// ScormCloseRequest is the close telemetry payload
type ScormCloseRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

// RTEOpenRequest opens a runtime bridge session for a course
type RTEOpenRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

// RTECallRequest is one RTE operation from the player adapter
type RTECallRequest struct {
	Op    string `json:"op" validate:"required"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ScormLaunch validates the launch telemetry body
func ScormLaunch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ScormLaunchRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"courseId": "Course ID is required!",
			})
		}
		c.Locals("validatedScormLaunch", reqData)
		return c.Next()
	}
}

// ScormProgress validates the progress report body
func ScormProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ScormProgressRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"courseId": "Course ID is required!",
			})
		}
		c.Locals("validatedScormProgress", reqData)
		return c.Next()
	}
}

// ScormClose validates the close telemetry body
func ScormClose() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ScormCloseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"courseId": "Course ID is required!",
			})
		}
		c.Locals("validatedScormClose", reqData)
		return c.Next()
	}
}

// RTEOpen validates the session open body
func RTEOpen() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RTEOpenRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"courseId": "Course ID is required!",
			})
		}
		c.Locals("validatedRTEOpen", reqData)
		return c.Next()
	}
}

// RTECall validates the RTE operation body
func RTECall() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RTECallRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"op": "Operation name is required!",
			})
		}
		c.Locals("validatedRTECall", reqData)
		return c.Next()
	}
}
