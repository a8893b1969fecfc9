// Package tmdb wraps the themoviedb.org API: title search and detail fetch,
// both routed through the shared rate limiter. A 404 from either endpoint
// means "not found" and yields a nil result; any other non-2xx status is an
// error.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"kino_karlsruhe/ratelimit"

	"github.com/redis/go-redis/v9"
)

const baseURL = "https://api.themoviedb.org/3"

// SearchResult is the top-ranked hit of a title search.
type SearchResult struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Popularity   float64 `json:"popularity"`
	ReleaseDate  string  `json:"release_date"`
}

// MovieDetails carries the full metadata for a known id. ReleaseDate is
// already resolved to the German theatrical date where available.
type MovieDetails struct {
	ID           int
	Title        string
	Runtime      int
	Popularity   float64
	PosterPath   string
	BackdropPath string
	ReleaseDate  *time.Time
}

type Client struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *ratelimit.Bucket
	cache   *redis.Client
}

// New builds a client. cache may be nil, which disables search caching.
func New(token string, limiter *ratelimit.Bucket, cache *redis.Client) *Client {
	return &Client{
		token:   token,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: limiter,
		cache:   cache,
	}
}

// Search returns the top-ranked result for a free-text title, or nil when
// the API reports nothing. Results, including misses, are cached.
func (c *Client) Search(ctx context.Context, title string) (*SearchResult, error) {
	if hit, ok := c.cachedSearch(ctx, title); ok {
		return hit, nil
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/search/movie?query=%s&include_adult=true&language=de-DE", c.baseURL, url.QueryEscape(title))
	res, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		c.storeSearch(ctx, title, nil)
		return nil, nil
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("tmdb search returned status %d", res.StatusCode)
	}

	var body struct {
		Results []SearchResult `json:"results"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding tmdb search response: %w", err)
	}
	if len(body.Results) == 0 {
		c.storeSearch(ctx, title, nil)
		return nil, nil
	}

	c.storeSearch(ctx, title, &body.Results[0])
	return &body.Results[0], nil
}

// Details fetches full metadata for a known tmdb id. A 404 returns (nil, nil)
// so the caller can distinguish a vanished id from a service failure.
func (c *Client) Details(ctx context.Context, tmdbId int) (*MovieDetails, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/movie/%d?language=de-DE&append_to_response=release_dates", c.baseURL, tmdbId)
	res, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("tmdb details returned status %d", res.StatusCode)
	}

	var body detailsResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding tmdb details response: %w", err)
	}

	return &MovieDetails{
		ID:           body.ID,
		Title:        body.Title,
		Runtime:      body.Runtime,
		Popularity:   body.Popularity,
		PosterPath:   body.PosterPath,
		BackdropPath: body.BackdropPath,
		ReleaseDate:  body.resolveReleaseDate("DE"),
	}, nil
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	return c.http.Do(req)
}

type detailsResponse struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Runtime      int     `json:"runtime"`
	Popularity   float64 `json:"popularity"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	ReleaseDates struct {
		Results []struct {
			Country  string `json:"iso_3166_1"`
			Releases []struct {
				ReleaseDate string `json:"release_date"`
				Type        int    `json:"type"`
			} `json:"release_dates"`
		} `json:"results"`
	} `json:"release_dates"`
}

// release event type 3 is a theatrical release.
const theatricalRelease = 3

// resolveReleaseDate picks, in order: the country's first theatrical release
// event, the country's earliest release event, the generic release_date
// field, or nothing.
func (d *detailsResponse) resolveReleaseDate(country string) *time.Time {
	for _, r := range d.ReleaseDates.Results {
		if r.Country != country {
			continue
		}
		var earliest *time.Time
		for _, rel := range r.Releases {
			t, err := parseReleaseDate(rel.ReleaseDate)
			if err != nil {
				continue
			}
			if rel.Type == theatricalRelease {
				return &t
			}
			if earliest == nil || t.Before(*earliest) {
				earliest = &t
			}
		}
		if earliest != nil {
			return earliest
		}
	}
	if t, err := parseReleaseDate(d.ReleaseDate); err == nil {
		return &t
	}
	return nil
}

func parseReleaseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty release date")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
