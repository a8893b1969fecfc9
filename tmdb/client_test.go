package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kino_karlsruhe/ratelimit"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New("token-123", ratelimit.NewBucket(10, 1), nil)
	c.baseURL = srv.URL
	return c
}

func TestSearchReturnsTopResult(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "Dune" {
			t.Errorf("query = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("authorization = %q", got)
		}
		fmt.Fprint(w, `{"results":[
			{"id":438631,"title":"Dune","popularity":95.5,"poster_path":"/p.jpg"},
			{"id":1,"title":"Dune Documentary","popularity":2.0}
		]}`)
	})

	hit, err := c.Search(context.Background(), "Dune")
	if err != nil {
		t.Fatal(err)
	}
	if hit == nil || hit.ID != 438631 || hit.Title != "Dune" {
		t.Fatalf("hit = %+v, want the top-ranked result", hit)
	}
}

func TestSearchNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	hit, err := c.Search(context.Background(), "Nichts")
	if err != nil || hit != nil {
		t.Fatalf("got %+v, %v; want nil, nil on 404", hit, err)
	}
}

func TestSearchEmptyResults(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	})
	hit, err := c.Search(context.Background(), "Nichts")
	if err != nil || hit != nil {
		t.Fatalf("got %+v, %v; want nil, nil on empty results", hit, err)
	}
}

func TestSearchServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	if _, err := c.Search(context.Background(), "Dune"); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestDetailsPrefersGermanTheatricalRelease(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/42" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"id":42,"title":"Der Film","runtime":130,"popularity":10.5,
			"poster_path":"/p.jpg","backdrop_path":"/b.jpg",
			"release_date":"2024-01-01",
			"release_dates":{"results":[
				{"iso_3166_1":"US","release_dates":[{"release_date":"2023-12-25T00:00:00.000Z","type":3}]},
				{"iso_3166_1":"DE","release_dates":[
					{"release_date":"2024-03-01T00:00:00.000Z","type":2},
					{"release_date":"2024-05-01T00:00:00.000Z","type":3}
				]}
			]}
		}`)
	})

	details, err := c.Details(context.Background(), 42)
	if err != nil {
		t.Fatal(err)
	}
	if details.Runtime != 130 || details.Popularity != 10.5 {
		t.Errorf("details = %+v", details)
	}
	want := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	if details.ReleaseDate == nil || !details.ReleaseDate.Equal(want) {
		t.Errorf("release date = %v, want the German theatrical date %v", details.ReleaseDate, want)
	}
}

func TestDetailsFallsBackToEarliestGermanRelease(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"id":42,"title":"Der Film",
			"release_date":"2024-01-01",
			"release_dates":{"results":[
				{"iso_3166_1":"DE","release_dates":[
					{"release_date":"2024-06-15T00:00:00.000Z","type":2},
					{"release_date":"2024-02-10T00:00:00.000Z","type":1}
				]}
			]}
		}`)
	})

	details, err := c.Details(context.Background(), 42)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	if details.ReleaseDate == nil || !details.ReleaseDate.Equal(want) {
		t.Errorf("release date = %v, want earliest German event %v", details.ReleaseDate, want)
	}
}

func TestDetailsFallsBackToGenericDate(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":42,"title":"Der Film","release_date":"2024-06-10","release_dates":{"results":[]}}`)
	})

	details, err := c.Details(context.Background(), 42)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	if details.ReleaseDate == nil || !details.ReleaseDate.Equal(want) {
		t.Errorf("release date = %v, want generic %v", details.ReleaseDate, want)
	}
}

func TestDetailsNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	details, err := c.Details(context.Background(), 42)
	if err != nil || details != nil {
		t.Fatalf("got %+v, %v; want nil, nil on 404", details, err)
	}
}
