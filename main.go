package main

import (
	"log"

	"kino_karlsruhe/config"
	"kino_karlsruhe/crawler"
	"kino_karlsruhe/database"
	"kino_karlsruhe/handler"
	"kino_karlsruhe/helper"
	"kino_karlsruhe/ratelimit"
	"kino_karlsruhe/router"
	"kino_karlsruhe/tmdb"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"
)

// The metadata API allows roughly 45 requests per second.
const (
	tmdbBurst     = 45
	tmdbRatePerMs = 0.045
)

func main() {
	app := fiber.New()
	app.Use(cors.New())

	database.ConnectDB()
	store := database.NewStore(database.DB)

	var cache *redis.Client
	if addr := config.Config("REDIS_ADDR"); addr != "" {
		cache = redis.NewClient(&redis.Options{Addr: addr})
	}

	limiter := ratelimit.NewBucket(tmdbBurst, tmdbRatePerMs)
	meta := tmdb.New(config.Config("TMDB_API_KEY"), limiter, cache)
	orchestrator := crawler.NewOrchestrator(store, meta)

	handler.InitCrawler(orchestrator)
	helper.StartCrawlScheduler(orchestrator)
	defer helper.StopCrawlScheduler()

	if config.Config("CRAWL_ON_START") == "true" {
		go helper.RunCrawl(orchestrator)
	}

	router.SetupRoutes(app)

	port := config.Config("PORT")
	if port == "" {
		port = "8002"
	}
	log.Fatal(app.Listen(":" + port))
}
