package handler

import (
	"errors"
	"strings"

	"kino_karlsruhe/constants"
	"kino_karlsruhe/database"
	"kino_karlsruhe/model"
	"kino_karlsruhe/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GetMovies(c *fiber.Ctx) error {
	filterInput := new(model.FilterMovieInput)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	condition := database.DB.Model(&model.Movie{})
	if filterInput.Title != "" {
		condition = condition.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filterInput.Title)+"%")
	}

	var totalCount int64
	condition.Count(&totalCount)

	var movies model.Movies
	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)
	if err := condition.Order("title asc").Find(&movies).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.QUERY_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       movies,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	})
}

func GetMovieById(c *fiber.Ctx) error {
	movieId, err := c.ParamsInt("movieId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	var movie model.Movie
	if err := database.DB.First(&movie, movieId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.QUERY_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, movie)
}
