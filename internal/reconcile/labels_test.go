package reconcile_test

import (
	"reflect"
	"testing"
	"time"

	"shelf/internal/library"
	"shelf/internal/reconcile"
)

func TestLabelCodecRoundTrips(t *testing.T) {
	names := []string{
		"Movies",
		library.ViewedSectionName("Movies"),
		"~odd",
		`\slash`,
		"Фильмы",
		"Sci]Fi",
		`a\]b`,
		"trailing\\",
		library.ViewedSectionName("Sci]Fi"),
		library.ViewedSectionName("~odd"),
	}
	seen := map[string]string{}
	for _, name := range names {
		label := reconcile.EncodeLabel(name)
		if other, dup := seen[label]; dup {
			t.Fatalf("label %q shared by %q and %q", label, other, name)
		}
		seen[label] = name
		if got := reconcile.DecodeLabel(label); got != name {
			t.Fatalf("DecodeLabel(EncodeLabel(%q)) = %q", name, got)
		}
	}
	if got := reconcile.EncodeLabel(library.ViewedSectionName("Movies")); got != "~Movies" {
		t.Fatalf("viewed label = %q", got)
	}
}

func TestUnchangedBufferWithBracketInSectionName(t *testing.T) {
	store := library.NewStore(library.WithClock(func() time.Time { return time.Unix(0, 0) }))
	for _, name := range []string{"Movies", "Sci]Fi"} {
		if err := store.AddSection(name); err != nil {
			t.Fatalf("AddSection: %v", err)
		}
	}
	heat, _ := store.AddItem("Movies", "Heat")
	alien, _ := store.AddItem("Sci]Fi", "Alien")

	lines := []string{
		reconcile.FormatLine("Movies", heat.Text),
		reconcile.FormatLine("Sci]Fi", alien.Text),
	}
	if lines[1] != `[Sci\]Fi] Alien` {
		t.Fatalf("line = %q", lines[1])
	}
	masks := map[string][]bool{"Movies": {true}, "Sci]Fi": {true}}
	plan := reconcile.PlanAll(store, masks, lines)
	if plan.Changed() {
		t.Fatalf("unchanged buffer produced changes: %+v", plan)
	}
	plan.Apply(store)
	if store.HasSection("Sci") {
		t.Fatal("bracket split the label into a new section")
	}
	items, _ := store.Items("Sci]Fi")
	if len(items) != 1 || items[0].ID != alien.ID {
		t.Fatalf("Sci]Fi = %+v", items)
	}
}

func TestParseAllLines(t *testing.T) {
	lines := []string{
		"Heat",
		"[Series] Dark",
		"Lost",
		"[~Movies]",
		"Alien",
		"[Movies] Up",
	}
	b := reconcile.ParseAllLines(lines, "Movies")
	wantOrder := []string{"Movies", "Series", library.ViewedSectionName("Movies")}
	if !reflect.DeepEqual(b.Order, wantOrder) {
		t.Fatalf("order = %v", b.Order)
	}
	if !reflect.DeepEqual(b.Lines["Movies"], []string{"Heat", "Up"}) {
		t.Fatalf("Movies = %v", b.Lines["Movies"])
	}
	if !reflect.DeepEqual(b.Lines["Series"], []string{"Dark", "Lost"}) {
		t.Fatalf("Series = %v", b.Lines["Series"])
	}
	if !reflect.DeepEqual(b.Lines[library.ViewedSectionName("Movies")], []string{"Alien"}) {
		t.Fatalf("viewed = %v", b.Lines[library.ViewedSectionName("Movies")])
	}
}

func TestPlanAllComputesEverySectionBeforeApply(t *testing.T) {
	store := library.NewStore(library.WithClock(func() time.Time { return time.Unix(0, 0) }))
	for _, name := range []string{"Movies", "Series", "Untouched"} {
		if err := store.AddSection(name); err != nil {
			t.Fatalf("AddSection: %v", err)
		}
	}
	heat, _ := store.AddItem("Movies", "Heat")
	alien, _ := store.AddItem("Movies", "Alien")
	dark, _ := store.AddItem("Series", "Dark")
	keep, _ := store.AddItem("Untouched", "Keep")

	masks := map[string][]bool{
		"Movies": {true, false},
		"Series": {true},
	}
	lines := []string{"[Movies] Heat (1995)", "[Docs] Baraka"}
	plan := reconcile.PlanAll(store, masks, lines)

	if _, err := store.Items("Docs"); err == nil {
		t.Fatal("plan must not write before Apply")
	}
	plan.Apply(store)

	movies, _ := store.Items("Movies")
	if len(movies) != 2 || movies[0].ID != heat.ID || movies[0].Text != "Heat (1995)" || movies[1].ID != alien.ID {
		t.Fatalf("movies = %+v", movies)
	}
	series, _ := store.Items("Series")
	if len(series) != 0 {
		t.Fatalf("series should be emptied, got %+v", series)
	}
	docs, err := store.Items("Docs")
	if err != nil || len(docs) != 1 || docs[0].Text != "Baraka" {
		t.Fatalf("docs = %+v err=%v", docs, err)
	}
	untouched, _ := store.Items("Untouched")
	if len(untouched) != 1 || untouched[0] != keep {
		t.Fatalf("untouched = %+v", untouched)
	}
	if !reflect.DeepEqual(plan.Dropped(), []string{dark.ID}) {
		t.Fatalf("dropped = %v", plan.Dropped())
	}
	if !reflect.DeepEqual(plan.Renamed(), []string{heat.ID}) {
		t.Fatalf("renamed = %v", plan.Renamed())
	}
	if len(plan.Created()) != 1 {
		t.Fatalf("created = %v", plan.Created())
	}
}
