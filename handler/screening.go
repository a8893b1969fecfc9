package handler

import (
	"kino_karlsruhe/constants"
	"kino_karlsruhe/database"
	"kino_karlsruhe/model"
	"kino_karlsruhe/utils"

	"github.com/gofiber/fiber/v2"
)

// GetScreenings lists screenings in a date range, movie and cinema included,
// optionally narrowed to one movie.
func GetScreenings(c *fiber.Ctx) error {
	filterInput := new(model.FilterScreeningInput)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	condition := database.DB.Model(&model.Screening{}).
		Where("start_time >= ? AND start_time <= ?", filterInput.DateFrom, filterInput.DateTo)
	if filterInput.MovieId > 0 {
		condition = condition.Where("movie_id = ?", filterInput.MovieId)
	}

	var screenings []model.Screening
	if err := condition.
		Preload("Movie").
		Preload("Cinema").
		Order("start_time asc").
		Find(&screenings).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.QUERY_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, screenings)
}
