package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"kino_karlsruhe/model"
)

const filmpalastFixture = `<html><body>
<script id="pmkino-shortcode-program-script-js-extra">
var pmkinoProgramData = {"apiData":{"movies":{"items":{
"123":{"title":"Gladiator II","titleDisplay":"Gladiator II (OV)","length":148,"releaseDate":"2024-11-14",
"performances":[{"timeUtc":"2024-12-20T18:30:00Z","attributes":[{"name":"omu"}]}]},
"456":{"title":"Ohne Termine","performances":[]}
}}}};
</script>
</body></html>`

func TestFilmpalastExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, filmpalastFixture)
	}))
	defer srv.Close()

	store := newFakeStore(model.Cinema{Name: "Filmpalast"})
	e := NewFilmpalast(store)
	e.URL = srv.URL

	screenings, err := e.Extract(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(screenings) != 1 {
		t.Fatalf("got %d screenings, want 1; movies without performances are skipped", len(screenings))
	}

	s := screenings[0]
	if s.MovieTitle != "Gladiator II" {
		t.Errorf("title = %q", s.MovieTitle)
	}
	// 18:30 UTC is 19:30 Berlin wall time in winter.
	if want := time.Date(2024, time.December, 20, 19, 30, 0, 0, berlin); !s.StartTime.Equal(want) {
		t.Errorf("start = %v, want %v", s.StartTime, want)
	}
	if !reflect.DeepEqual(s.Properties, []string{"OV", "OmU"}) {
		t.Errorf("properties = %v, want [OV OmU]", s.Properties)
	}
	if s.Length == nil || *s.Length != 148 {
		t.Errorf("length hint = %v, want 148", s.Length)
	}
	if s.ReleaseDate == nil || !s.ReleaseDate.Equal(time.Date(2024, time.November, 14, 0, 0, 0, 0, berlin)) {
		t.Errorf("release date hint = %v", s.ReleaseDate)
	}

	if len(store.deletes) != 1 || store.deletes[0].cinemaId != 1 {
		t.Fatalf("deletes = %v", store.deletes)
	}
}

func TestFilmpalastExtractMissingScript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>kein Programm</body></html>")
	}))
	defer srv.Close()

	store := newFakeStore(model.Cinema{Name: "Filmpalast"})
	e := NewFilmpalast(store)
	e.URL = srv.URL

	if _, err := e.Extract(context.Background()); err == nil {
		t.Fatal("expected error when the program blob is missing")
	}
	if len(store.deletes) != 0 {
		t.Error("failed extraction deleted stored screenings")
	}
}
