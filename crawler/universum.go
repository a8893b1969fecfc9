package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Universum scrapes the Kinopolis Karlsruhe program: movie sections with a
// day navigation whose items carry performance id lists that cross-reference
// the actual showtime nodes.
type Universum struct {
	URL    string
	store  Store
	client *http.Client
	now    func() time.Time
}

func NewUniversum(store Store) *Universum {
	return &Universum{
		URL:    "https://www.kinopolis.de/ka/programm",
		store:  store,
		client: newFetchClient(),
		now:    time.Now,
	}
}

func (e *Universum) CinemaName() string { return "Universum" }

func (e *Universum) Extract(ctx context.Context) ([]RawScreening, error) {
	cinema, err := e.store.CinemaByName(ctx, e.CinemaName())
	if err != nil {
		return nil, err
	}
	if cinema == nil {
		return nil, fmt.Errorf("cinema %q not found", e.CinemaName())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
	if err != nil {
		return nil, err
	}
	res, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("kinopolis returned status %d", res.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, err
	}

	now := e.now()
	var screenings []RawScreening

	doc.Find(".movie").Each(func(_ int, movieSection *goquery.Selection) {
		rawTitle := strings.TrimSpace(movieSection.Find("h2.hl--1 .hl-link").First().Text())
		title, annotation := splitTrailingParen(rawTitle)
		if title == "" {
			return
		}

		movieSection.Find(".prog-nav__item").Each(func(_ int, dateNav *goquery.Selection) {
			dayText := strings.TrimSpace(dateNav.Find(".prog-nav__day").Text())

			// Items without ids, and the "weitere Spielzeiten" link, carry
			// no screenings of their own.
			performanceIds, _ := dateNav.Attr("data-performance-ids")
			if performanceIds == "" || strings.Contains(performanceIds, "»") {
				return
			}
			date, ok := parseRelativeGermanDate(dayText, now)
			if !ok {
				return
			}

			ids := strings.Split(strings.NewReplacer("[", "", "]", "").Replace(performanceIds), ",")
			for _, id := range ids {
				id = strings.TrimSpace(id)
				if id == "" {
					continue
				}
				performance := movieSection.Find(fmt.Sprintf("[data-performance-id='%s']", id))
				if performance.Length() == 0 {
					continue
				}
				hours, minutes, err := parseClock(performance.Find(".prog2__time").Text(), ":")
				if err != nil {
					continue
				}

				properties := make([]string, 0, 2)
				if annotation != "" {
					properties = append(properties, strings.Split(annotation, segmentSeparator)...)
				}
				if versionData, ok := performance.Find(".buy__btn").Attr("data-version"); ok {
					var versions []string
					if err := json.Unmarshal([]byte(versionData), &versions); err == nil {
						properties = append(properties, versions...)
					}
				}

				screenings = append(screenings, RawScreening{
					MovieTitle: title,
					StartTime:  time.Date(date.Year(), date.Month(), date.Day(), hours, minutes, 0, 0, berlin),
					Properties: NormalizeProperties(properties),
					CinemaId:   cinema.ID,
				})
			}
		})
	})

	if err := deleteStale(ctx, e.store, cinema.ID, screenings); err != nil {
		return nil, err
	}
	return screenings, nil
}
