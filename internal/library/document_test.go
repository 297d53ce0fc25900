package library_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"shelf/internal/library"
)

func TestDecodeDocumentNormalizesLegacyItems(t *testing.T) {
	raw := `{"sections":{
		"Movies":{"items":["  Heat ",{"text":"Alien","tags":["Horror","horror "," SCI  FI"]}],"modified":"2024-01-02T03:04:05Z"},
		"Series":{"items":[{"id":"fixed","text":"Dark","created":1700000000000}]}
	}}`
	doc, err := library.DecodeDocument([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	store := library.FromDocument(doc)
	if got := strings.Join(store.SectionNames(), ","); got != "Movies,Series" {
		t.Fatalf("section order = %s", got)
	}
	movies, _ := store.Items("Movies")
	if len(movies) != 2 {
		t.Fatalf("movies = %d items", len(movies))
	}
	if movies[0].Text != "Heat" || movies[0].ID == "" {
		t.Fatalf("legacy string item = %+v", movies[0])
	}
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if !movies[1].CreatedAt.Equal(base.Add(time.Millisecond)) {
		t.Fatalf("derived created = %v", movies[1].CreatedAt)
	}
	if strings.Join(movies[1].Tags, "|") != "horror|sci fi" {
		t.Fatalf("tags = %v", movies[1].Tags)
	}
	series, _ := store.Items("Series")
	if series[0].ID != "fixed" || series[0].CreatedAt.UnixMilli() != 1700000000000 {
		t.Fatalf("series item = %+v", series[0])
	}
}

func TestDocumentRoundTripKeepsSectionOrder(t *testing.T) {
	store := library.NewStore()
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		if err := store.AddSection(name); err != nil {
			t.Fatalf("AddSection: %v", err)
		}
	}
	it, _ := store.AddItem("Alpha", "Heat")
	yes := true
	it.InProduction = &yes

	data, err := library.EncodeDocument(store.Document())
	if err != nil {
		t.Fatalf("EncodeDocument: %v", err)
	}
	if strings.Index(string(data), `"Zeta"`) > strings.Index(string(data), `"Alpha"`) {
		t.Fatalf("section order lost:\n%s", data)
	}
	doc, err := library.DecodeDocument(data)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	back := library.FromDocument(doc)
	if strings.Join(back.SectionNames(), ",") != "Zeta,Alpha,Mid" {
		t.Fatalf("order = %v", back.SectionNames())
	}
	_, got, ok := back.FindItem(it.ID)
	if !ok || got.Text != "Heat" || got.InProduction == nil || !*got.InProduction {
		t.Fatalf("round-tripped item = %+v ok=%v", got, ok)
	}
}

func TestDecodeDocumentRejectsMalformed(t *testing.T) {
	_, err := library.DecodeDocument([]byte(`{"sections":[1,2]}`))
	if !errors.Is(err, library.ErrDataShape) {
		t.Fatalf("expected ErrDataShape, got %v", err)
	}
	doc, err := library.DecodeDocument([]byte(`{"sections":{}}`))
	if err != nil || len(doc.Sections) != 0 {
		t.Fatalf("empty document: %+v err=%v", doc, err)
	}
}
