package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"shelf/internal/library"
	"shelf/internal/tmdb"
)

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	routes := map[string]string{
		"/search/tv":        `{"results":[{"id":70523,"name":"Тьма","original_name":"Dark","first_air_date":"2017-12-01","poster_path":"/dark.jpg","origin_country":["DE"],"vote_average":8.4,"vote_count":7000},{"id":2,"name":"Two"},{"id":3,"name":"Three"}]}`,
		"/tv/70523":         `{"id":70523,"genres":[{"id":18,"name":"драма"}],"origin_country":["DE"],"production_countries":[{"iso_3166_1":"DE"},{"iso_3166_1":"us"}],"number_of_seasons":3,"number_of_episodes":26,"first_air_date":"2017-12-01","last_air_date":"2020-06-27","in_production":false}`,
		"/genre/movie/list": `{"genres":[{"id":18,"name":"драма"},{"id":28,"name":"боевик"}]}`,
		"/genre/tv/list":    `{"genres":[{"id":18,"name":"Drama TV"},{"id":10765,"name":"НФ и Фэнтези"}]}`,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCatalogSearchSeriesMapsHits(t *testing.T) {
	server := newCatalogServer(t)
	client, err := tmdb.New("key", server.URL, "ru-RU")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	catalog := tmdb.NewCatalog(client, "https://img.example/w342/", 2)

	hits, err := catalog.SearchSeries(context.Background(), "Dark", "")
	if err != nil {
		t.Fatalf("SearchSeries: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected limit of 2 hits, got %d", len(hits))
	}
	h := hits[0]
	if h.MediaType != library.MediaSeries || h.Title != "Тьма" || h.OriginalTitle != "Dark" || h.Date != "2017-12-01" {
		t.Fatalf("hit = %+v", h)
	}
	if h.PosterURL != "https://img.example/w342/dark.jpg" {
		t.Fatalf("poster = %q", h.PosterURL)
	}
}

func TestCatalogDetailsMergesCountries(t *testing.T) {
	server := newCatalogServer(t)
	client, _ := tmdb.New("key", server.URL, "ru-RU")
	catalog := tmdb.NewCatalog(client, "", 0)

	d, err := catalog.Details(context.Background(), library.MediaSeries, 70523)
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if !reflect.DeepEqual(d.CountryCodes, []string{"DE", "US"}) {
		t.Fatalf("countries = %v", d.CountryCodes)
	}
	if d.SeasonCount != 3 || d.EpisodeCount != 26 || d.InProduction == nil || *d.InProduction {
		t.Fatalf("details = %+v", d)
	}
	if _, err := catalog.Details(context.Background(), "", 1); err == nil {
		t.Fatal("expected error for unknown media type")
	}
}

func TestCatalogGenresPrefersMovieNames(t *testing.T) {
	server := newCatalogServer(t)
	client, _ := tmdb.New("key", server.URL, "ru-RU")
	table, err := tmdb.NewCatalog(client, "", 0).Genres(context.Background())
	if err != nil {
		t.Fatalf("Genres: %v", err)
	}
	want := map[int]string{18: "драма", 28: "боевик", 10765: "НФ и Фэнтези"}
	if !reflect.DeepEqual(table, want) {
		t.Fatalf("genres = %v", table)
	}
}
