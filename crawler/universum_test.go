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

const universumFixture = `<html><body>
<div class="movie">
 <h2 class="hl--1"><a class="hl-link">Wicked (OV)</a></h2>
 <div class="prog-nav">
  <div class="prog-nav__item" data-performance-ids="[101,102]"><span class="prog-nav__day">Heute</span></div>
  <div class="prog-nav__item" data-performance-ids="[103]"><span class="prog-nav__day">So. 22.12.</span></div>
  <div class="prog-nav__item" data-performance-ids=""><span class="prog-nav__day">weitere Spielzeiten »</span></div>
 </div>
 <div class="prog2" data-performance-id="101"><span class="prog2__time">17:00</span><a class="buy__btn" data-version='["3d"]'>Karten</a></div>
 <div class="prog2" data-performance-id="102"><span class="prog2__time">20:15</span><a class="buy__btn">Karten</a></div>
 <div class="prog2" data-performance-id="103"><span class="prog2__time">19:30</span><a class="buy__btn" data-version='["omu"]'>Karten</a></div>
</div>
</body></html>`

func TestUniversumExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, universumFixture)
	}))
	defer srv.Close()

	store := newFakeStore(model.Cinema{Name: "Universum"})
	e := NewUniversum(store)
	e.URL = srv.URL
	e.now = func() time.Time { return time.Date(2024, time.December, 15, 12, 0, 0, 0, berlin) }

	screenings, err := e.Extract(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(screenings) != 3 {
		t.Fatalf("got %d screenings, want 3", len(screenings))
	}

	for _, s := range screenings {
		if s.MovieTitle != "Wicked" {
			t.Errorf("title = %q, want annotation stripped", s.MovieTitle)
		}
	}

	first := screenings[0]
	if want := time.Date(2024, time.December, 15, 17, 0, 0, 0, berlin); !first.StartTime.Equal(want) {
		t.Errorf("Heute start = %v, want %v", first.StartTime, want)
	}
	// Title annotation plus the performance's own version tag.
	if !reflect.DeepEqual(first.Properties, []string{"OV", "3D"}) {
		t.Errorf("properties = %v, want [OV 3D]", first.Properties)
	}

	if !reflect.DeepEqual(screenings[1].Properties, []string{"OV"}) {
		t.Errorf("properties without data-version = %v, want [OV]", screenings[1].Properties)
	}

	third := screenings[2]
	if want := time.Date(2024, time.December, 22, 19, 30, 0, 0, berlin); !third.StartTime.Equal(want) {
		t.Errorf("dated nav start = %v, want %v", third.StartTime, want)
	}
	if !reflect.DeepEqual(third.Properties, []string{"OV", "OmU"}) {
		t.Errorf("properties = %v, want [OV OmU]", third.Properties)
	}

	if len(store.deletes) != 1 || store.deletes[0].cinemaId != 1 {
		t.Fatalf("deletes = %v", store.deletes)
	}
}
