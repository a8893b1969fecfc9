package validate

import (
	"errors"

	"kino_karlsruhe/constants"
	"kino_karlsruhe/model"
	"kino_karlsruhe/utils"

	"github.com/gofiber/fiber/v2"
)

// GetScreenings checks the date range before the handler runs.
func GetScreenings() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.FilterScreeningInput
		if err := c.QueryParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}

		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}

		if !input.DateTo.After(input.DateFrom) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_RANGE, errors.New(constants.INVALID_RANGE))
		}

		return c.Next()
	}
}
