package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Kinemathek scrapes kinemathek-karlsruhe.de: a WordPress theatre plugin
// listing with one h3 day header per date followed by sibling event
// elements, paginated through a "load more" link.
type Kinemathek struct {
	URL    string
	store  Store
	client *http.Client
	now    func() time.Time
}

// allow-list: the Kinemathek tags most technical specs (projection format,
// rental notes) that are not screening properties.
var kinemathekAllowedProps = []string{"OmU"}

var kinemathekDateRe = regexp.MustCompile(`(\d{1,2})\. (\p{L}+)`)

const kinemathekMaxPages = 10

func NewKinemathek(store Store) *Kinemathek {
	return &Kinemathek{
		URL:    "https://kinemathek-karlsruhe.de/spielplan/",
		store:  store,
		client: newFetchClient(),
		now:    time.Now,
	}
}

func (e *Kinemathek) CinemaName() string { return "Kinemathek" }

func (e *Kinemathek) Extract(ctx context.Context) ([]RawScreening, error) {
	cinema, err := e.store.CinemaByName(ctx, e.CinemaName())
	if err != nil {
		return nil, err
	}
	if cinema == nil {
		return nil, fmt.Errorf("cinema %q not found", e.CinemaName())
	}

	var screenings []RawScreening
	now := e.now()

	// Follow the "load more" link until it disappears.
	pageURL := e.URL
	for page := 0; pageURL != "" && page < kinemathekMaxPages; page++ {
		doc, err := e.fetchPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		screenings = append(screenings, e.parsePage(doc, cinema.ID, now)...)
		pageURL = e.nextPageURL(doc, pageURL)
	}

	if err := deleteStale(ctx, e.store, cinema.ID, screenings); err != nil {
		return nil, err
	}
	return screenings, nil
}

func (e *Kinemathek) fetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	res, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("kinemathek returned status %d", res.StatusCode)
	}
	return goquery.NewDocumentFromReader(res.Body)
}

func (e *Kinemathek) parsePage(doc *goquery.Document, cinemaId uint, now time.Time) []RawScreening {
	var screenings []RawScreening

	doc.Find(".entry-content h3.wpt_listing_group.day").Each(func(_ int, dateHeader *goquery.Selection) {
		// Headers look like "Donnerstag 2. Januar".
		m := kinemathekDateRe.FindStringSubmatch(strings.TrimSpace(dateHeader.Text()))
		if m == nil {
			return
		}
		day, _ := strconv.Atoi(m[1])
		month, ok := monthFromGermanName(m[2])
		if !ok {
			return
		}
		year := resolveYear(month, now)

		// Events follow the header as siblings until the next group marker.
		for el := dateHeader.Next(); el.Length() > 0 && !el.HasClass("wpt_listing_group"); el = el.Next() {
			if !el.HasClass("wp_theatre_event") {
				continue
			}
			hours, minutes, err := parseClock(el.Find(".wp_theatre_event_datetime").Text(), ":")
			if err != nil {
				continue
			}
			title, annotation := splitTrailingParen(strings.TrimSpace(el.Find(".wp_theatre_event_title a").Text()))
			if title == "" {
				continue
			}

			var properties []string
			if annotation != "" {
				properties = append(properties, strings.Split(annotation, segmentSeparator)...)
			}
			specs := strings.Split(el.Find(".wp_theatre_event_cine_technical_specs").Text(), "|")
			for _, spec := range specs {
				spec = strings.TrimSpace(spec)
				for _, allowed := range kinemathekAllowedProps {
					if spec == allowed {
						properties = append(properties, spec)
					}
				}
			}

			screenings = append(screenings, RawScreening{
				MovieTitle: title,
				StartTime:  time.Date(year, month, day, hours, minutes, 0, 0, berlin),
				Properties: NormalizeProperties(properties),
				CinemaId:   cinemaId,
			})
		}
	})

	return screenings
}

func (e *Kinemathek) nextPageURL(doc *goquery.Document, current string) string {
	href, ok := doc.Find("a.wpt_listing_load_more").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return ""
	}
	base, err := url.Parse(current)
	if err != nil {
		return ""
	}
	next, err := base.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := next.String()
	if resolved == current {
		return ""
	}
	return resolved
}
