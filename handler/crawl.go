package handler

import (
	"kino_karlsruhe/constants"
	"kino_karlsruhe/crawler"
	"kino_karlsruhe/utils"

	"github.com/gofiber/fiber/v2"
)

var orchestrator *crawler.Orchestrator

// InitCrawler hands the orchestrator to the crawl endpoint.
func InitCrawler(o *crawler.Orchestrator) {
	orchestrator = o
}

// TriggerCrawl runs one sync cycle on demand, the manual counterpart of the
// daily scheduler.
func TriggerCrawl(c *fiber.Ctx) error {
	if orchestrator == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, constants.CRAWL_FAILED, nil)
	}

	result, err := orchestrator.Run(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CRAWL_FAILED, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"screenings": len(result.Screenings),
		"movies":     len(result.Movies),
	})
}
