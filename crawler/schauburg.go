package crawler

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/charmap"
)

// Schauburg scrapes schauburg.de: an ISO-8859-1 page with one h5 date header
// per day followed by a table of showtimes.
type Schauburg struct {
	URL    string
	store  Store
	client *http.Client
	now    func() time.Time
}

const schauburgBoxOfficeNote = "(Das Angebot gilt ausschließlich vor Ort an unserer Kinokasse!)"

var runtimeMinutesRe = regexp.MustCompile(`^(?:ca\.\s*)?(\d{2,3}) Min\.?$`)

func NewSchauburg(store Store) *Schauburg {
	return &Schauburg{
		URL:    "https://schauburg.de/programm.php",
		store:  store,
		client: newFetchClient(),
		now:    time.Now,
	}
}

func (e *Schauburg) CinemaName() string { return "Schauburg" }

func (e *Schauburg) Extract(ctx context.Context) ([]RawScreening, error) {
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
		return nil, fmt.Errorf("schauburg returned status %d", res.StatusCode)
	}

	// The page is served as ISO-8859-1.
	doc, err := goquery.NewDocumentFromReader(charmap.ISO8859_1.NewDecoder().Reader(res.Body))
	if err != nil {
		return nil, err
	}

	now := e.now()
	var screenings []RawScreening

	doc.Find("h5").Each(func(_ int, dateEl *goquery.Selection) {
		// Date headers look like "Heute, 20.12." or "Sa, 21.12.".
		m := numericDateRe.FindStringSubmatch(strings.TrimSpace(dateEl.Text()))
		if m == nil {
			return
		}
		day, _ := strconv.Atoi(m[1])
		monthNum, _ := strconv.Atoi(m[2])
		month := time.Month(monthNum)
		if month < time.January || month > time.December {
			return
		}
		year := resolveYear(month, now)

		dateEl.NextFiltered("table").Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 2 {
				return
			}
			hours, minutes, err := parseClock(cells.First().Text(), ".")
			if err != nil {
				return
			}

			movieCell := cells.Last()
			var properties []string

			// A trailing parenthetical on the cell belongs to the
			// properties, not the title.
			if _, annotation := splitTrailingParen(strings.TrimSpace(movieCell.Text())); annotation != "" {
				properties = append(properties, strings.Split(annotation, segmentSeparator)...)
			}
			title, _ := splitTrailingParen(strings.TrimSpace(movieCell.Find("a").Text()))
			if title == "" {
				return
			}

			// Italic text carries comma-separated version tags plus the
			// occasional runtime.
			var length *int
			movieCell.Find("i").Each(func(_ int, italic *goquery.Selection) {
				for _, prop := range strings.Split(strings.TrimSpace(italic.Text()), ",") {
					for _, p := range strings.Split(prop, segmentSeparator) {
						p = strings.TrimSpace(strings.ReplaceAll(p, schauburgBoxOfficeNote, ""))
						if p == "" {
							continue
						}
						if rm := runtimeMinutesRe.FindStringSubmatch(p); rm != nil {
							if minutes, err := strconv.Atoi(rm[1]); err == nil {
								length = &minutes
							}
							continue
						}
						properties = append(properties, p)
					}
				}
			})

			screenings = append(screenings, RawScreening{
				MovieTitle: title,
				StartTime:  time.Date(year, month, day, hours, minutes, 0, 0, berlin),
				Properties: NormalizeProperties(properties),
				CinemaId:   cinema.ID,
				Length:     length,
			})
		})
	})

	if err := deleteStale(ctx, e.store, cinema.ID, screenings); err != nil {
		return nil, err
	}
	return screenings, nil
}
