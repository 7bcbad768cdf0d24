package courseValidators

import (
	"github.com/tendai-dev/SLIZ/middleware"

	"github.com/gofiber/fiber/v2"
)

// QuizSubmitRequest is the quiz submission payload: one selected option
// index per question, in question order.
type QuizSubmitRequest struct {
	Answers   []int `json:"answers" validate:"required,min=1"`
	TimeSpent int   `json:"timeSpent" validate:"gte=0"`
}

// QuizSubmit validates the quiz submission body
func QuizSubmit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuizSubmitRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if len(reqData.Answers) == 0 {
			errors["answers"] = "Please answer at least one question!"
		}
		if reqData.TimeSpent < 0 {
			errors["timeSpent"] = "Time spent cannot be negative!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizSubmit", reqData)
		return c.Next()
	}
}
