package courseValidators

import (
	"strconv"
	"strings"

	"github.com/tendai-dev/SLIZ/middleware"

	"github.com/gofiber/fiber/v2"
)

// CourseIDParam validates the :id / :courseId route parameter and stores it
// in Locals("courseID"). SCORM-derived IDs are lowercase hyphenated tokens.
func CourseIDParam(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params(param))
		if id == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				param: "Course ID is required!",
			})
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

// CourseList validates optional pagination query parameters
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := 1
		limit := 10

		errors := make(map[string]string)

		if raw := c.Query("page"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				errors["page"] = "Page must be a positive integer!"
			} else {
				page = parsed
			}
		}
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 100 {
				errors["limit"] = "Limit must be between 1 and 100!"
			} else {
				limit = parsed
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPage", page)
		c.Locals("validatedLimit", limit)
		return c.Next()
	}
}

// EnrollRequest is the enrollment creation payload
type EnrollRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

// Enroll validates the enrollment creation body
func Enroll() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EnrollRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"courseId": "Course ID is required!",
			})
		}
		c.Locals("validatedEnroll", reqData)
		return c.Next()
	}
}
