package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Filmpalast scrapes filmpalast.net: the program is a JSON blob embedded in
// a script tag by the booking widget.
type Filmpalast struct {
	URL    string
	store  Store
	client *http.Client
	now    func() time.Time
}

var filmpalastJSONRe = regexp.MustCompile(`(?s)\{.*\}`)

func NewFilmpalast(store Store) *Filmpalast {
	return &Filmpalast{
		URL:    "https://www.filmpalast.net/programm/?time=week",
		store:  store,
		client: newFetchClient(),
		now:    time.Now,
	}
}

func (e *Filmpalast) CinemaName() string { return "Filmpalast" }

type filmpalastProgram struct {
	ApiData struct {
		Movies struct {
			Items map[string]filmpalastMovie `json:"items"`
		} `json:"movies"`
	} `json:"apiData"`
}

type filmpalastMovie struct {
	Title        string `json:"title"`
	TitleDisplay string `json:"titleDisplay"`
	Length       int    `json:"length"`
	ReleaseDate  string `json:"releaseDate"`
	Performances []struct {
		TimeUtc    string `json:"timeUtc"`
		Attributes []struct {
			Name string `json:"name"`
		} `json:"attributes"`
	} `json:"performances"`
}

func (e *Filmpalast) Extract(ctx context.Context) ([]RawScreening, error) {
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
		return nil, fmt.Errorf("filmpalast returned status %d", res.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, err
	}

	scriptContent := doc.Find("script#pmkino-shortcode-program-script-js-extra").Text()
	jsonContent := filmpalastJSONRe.FindString(scriptContent)
	if jsonContent == "" {
		return nil, fmt.Errorf("no program JSON found in script content")
	}

	var program filmpalastProgram
	if err := json.Unmarshal([]byte(jsonContent), &program); err != nil {
		return nil, fmt.Errorf("decoding program JSON: %w", err)
	}

	var screenings []RawScreening
	for _, item := range program.ApiData.Movies.Items {
		if len(item.Performances) == 0 {
			continue
		}
		rawTitle := item.TitleDisplay
		if rawTitle == "" {
			rawTitle = item.Title
		}
		title, annotation := splitTrailingParen(strings.TrimSpace(rawTitle))
		if title == "" {
			continue
		}

		var length *int
		if item.Length > 0 {
			l := item.Length
			length = &l
		}
		var releaseDate *time.Time
		if item.ReleaseDate != "" {
			if t, err := time.ParseInLocation("2006-01-02", item.ReleaseDate, berlin); err == nil {
				releaseDate = &t
			}
		}

		for _, p := range item.Performances {
			start, err := time.Parse(time.RFC3339, p.TimeUtc)
			if err != nil {
				continue
			}
			properties := make([]string, 0, len(p.Attributes)+1)
			if annotation != "" {
				properties = append(properties, strings.Split(annotation, segmentSeparator)...)
			}
			for _, a := range p.Attributes {
				properties = append(properties, a.Name)
			}

			screenings = append(screenings, RawScreening{
				MovieTitle:  title,
				StartTime:   start.In(berlin),
				Properties:  NormalizeProperties(properties),
				CinemaId:    cinema.ID,
				Length:      length,
				ReleaseDate: releaseDate,
			})
		}
	}

	if err := deleteStale(ctx, e.store, cinema.ID, screenings); err != nil {
		return nil, err
	}
	return screenings, nil
}
