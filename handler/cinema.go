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

func GetCinemas(c *fiber.Ctx) error {
	filterInput := new(model.FilterCinemaInput)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	condition := database.DB.Model(&model.Cinema{})
	if filterInput.SearchKey != "" {
		key := "%" + strings.ToLower(filterInput.SearchKey) + "%"
		condition = condition.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", key, key)
	}

	var totalCount int64
	condition.Count(&totalCount)

	var cinemas model.Cinemas
	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)
	if err := condition.Order("name asc").Find(&cinemas).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.QUERY_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       cinemas,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	})
}

func GetCinemaById(c *fiber.Ctx) error {
	cinemaId, err := c.ParamsInt("cinemaId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	var cinema model.Cinema
	if err := database.DB.Preload("Screenings").First(&cinema, cinemaId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.QUERY_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, cinema)
}
