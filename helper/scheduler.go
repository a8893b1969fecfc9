package helper

import (
	"context"
	"log"
	"time"

	"kino_karlsruhe/crawler"

	"github.com/go-co-op/gocron/v2"
)

var crawlScheduler gocron.Scheduler

// RunCrawl executes one sync cycle and logs the outcome.
func RunCrawl(orchestrator *crawler.Orchestrator) {
	log.Println("[CRON] crawl cycle triggered")
	result, err := orchestrator.Run(context.Background())
	if err != nil {
		log.Printf("[CRON] crawl cycle failed: %v", err)
		return
	}
	log.Printf("[CRON] crawl cycle done: %d screenings, %d new movies", len(result.Screenings), len(result.Movies))
}

// StartCrawlScheduler runs the sync once a day at 04:30 Berlin time.
// Singleton mode keeps a slow cycle from overlapping the next one.
func StartCrawlScheduler(orchestrator *crawler.Orchestrator) {
	location, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		location = time.Local
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		log.Fatal(err)
	}

	crawlScheduler = s

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(4, 30, 0),
			),
		),
		gocron.NewTask(RunCrawl, orchestrator),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("crawl scheduler started (04:30 Europe/Berlin)")
}

func StopCrawlScheduler() {
	if crawlScheduler != nil {
		if err := crawlScheduler.Shutdown(); err != nil {
			log.Printf("stopping crawl scheduler: %v", err)
		}
	}
}
