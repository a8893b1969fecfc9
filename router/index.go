package router

import (
	"kino_karlsruhe/handler"
	"kino_karlsruhe/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1", logger.New())

	screening := v1.Group("/screening")
	screening.Get("/", validate.GetScreenings(), handler.GetScreenings)

	movie := v1.Group("/movie")
	movie.Get("/", handler.GetMovies)
	movie.Get("/:movieId", handler.GetMovieById)

	cinema := v1.Group("/cinema")
	cinema.Get("/", handler.GetCinemas)
	cinema.Get("/:cinemaId", handler.GetCinemaById)

	v1.Post("/crawl", handler.TriggerCrawl)
}
