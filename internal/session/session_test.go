package session_test

import (
	"context"
	"errors"
	"os"
	"slices"
	"testing"
	"time"

	"shelf/internal/blob"
	"shelf/internal/enrich"
	"shelf/internal/library"
	"shelf/internal/pending"
	"shelf/internal/session"
	"shelf/internal/testsupport"
	"shelf/internal/undo"
	"shelf/internal/view"
)

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
}

type harness struct {
	blobs   *blob.MemoryStore
	state   session.StateStore
	catalog *testsupport.Catalog
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return &harness{
		blobs:   blob.NewMemoryStore(),
		state:   testsupport.MustOpenState(t, cfg),
		catalog: testsupport.NewCatalog(),
	}
}

func (h *harness) open(t *testing.T, withCatalog bool) *session.Session {
	t.Helper()
	opts := []session.Option{
		session.WithStateStore(h.state),
		session.WithClock(fixedClock()),
		session.WithDefaultSections("Фильмы", "Сериалы"),
	}
	if withCatalog {
		opts = append(opts, session.WithEnricher(enrich.New(h.catalog)))
	}
	s, err := session.New(context.Background(), h.blobs, opts...)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	t.Cleanup(s.Wait)
	return s
}

func mustAdd(t *testing.T, s *session.Session, section, text string) *library.Item {
	t.Helper()
	it, err := s.AddItem(context.Background(), section, text)
	if err != nil {
		t.Fatalf("AddItem(%q): %v", text, err)
	}
	return it
}

func sectionTexts(t *testing.T, s *session.Session, section string) []string {
	t.Helper()
	var out []string
	s.Read(func(store *library.Store) {
		items, err := store.Items(section)
		if err != nil {
			t.Fatalf("Items(%q): %v", section, err)
		}
		for _, it := range items {
			out = append(out, it.Text)
		}
	})
	return out
}

func TestNewSeedsDefaultSectionsAndPersists(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, false)

	if got := s.Sections(); !slices.Equal(got, []string{"Фильмы", "Сериалы"}) {
		t.Fatalf("sections = %v", got)
	}
	if h.blobs.Puts() != 1 {
		t.Fatalf("expected seeded library to be written once, got %d", h.blobs.Puts())
	}
	if s.Prefs().Section != "Фильмы" {
		t.Fatalf("current section = %q", s.Prefs().Section)
	}

	mustAdd(t, s, "Сериалы", "Тьма")
	reopened := h.open(t, false)
	if got := sectionTexts(t, reopened, "Сериалы"); !slices.Equal(got, []string{"Тьма"}) {
		t.Fatalf("reloaded items = %v", got)
	}
}

func TestMalformedDocumentStartsEmpty(t *testing.T) {
	h := newHarness(t)
	h.blobs.SetRaw([]byte(`{"sections": 42}`))
	s := h.open(t, false)
	if got := s.Sections(); !slices.Equal(got, []string{"Фильмы", "Сериалы"}) {
		t.Fatalf("sections = %v", got)
	}
}

func TestLoadFailureIsReturned(t *testing.T) {
	h := newHarness(t)
	h.blobs.FailWith(errors.New("connection refused"))
	if _, err := session.New(context.Background(), h.blobs); err == nil {
		t.Fatal("expected load error")
	}
}

func TestWriteFailureIsSwallowedAndReported(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, false)
	h.blobs.FailWith(errors.New("disk full"))
	if _, err := s.AddItem(context.Background(), "Фильмы", "Дюна"); err != nil {
		t.Fatalf("AddItem should not fail on write error: %v", err)
	}
	if s.WriteErr() == nil {
		t.Fatal("expected WriteErr to report the failed write")
	}
	h.blobs.FailWith(nil)
	mustAdd(t, s, "Фильмы", "Солярис")
	if s.WriteErr() != nil {
		t.Fatalf("WriteErr after recovery = %v", s.WriteErr())
	}
}

func TestDeleteItemUndoRestoresPosition(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, false)
	ctx := context.Background()
	mustAdd(t, s, "Фильмы", "A")
	b := mustAdd(t, s, "Фильмы", "B")
	mustAdd(t, s, "Фильмы", "C")

	if _, err := s.DeleteItem(ctx, b.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if got := sectionTexts(t, s, "Фильмы"); !slices.Equal(got, []string{"A", "C"}) {
		t.Fatalf("after delete = %v", got)
	}
	outcome, err := s.Undo(ctx)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if outcome.Kind != undo.KindDeleteItem || outcome.ItemID != b.ID {
		t.Fatalf("outcome = %+v", outcome)
	}
	if got := sectionTexts(t, s, "Фильмы"); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Fatalf("after undo = %v", got)
	}
	if _, err := s.Undo(ctx); !errors.Is(err, undo.ErrNothingToUndo) {
		t.Fatalf("second undo err = %v", err)
	}
}

func TestUndoKeepsOnlyLatestOperation(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, false)
	ctx := context.Background()
	a := mustAdd(t, s, "Фильмы", "A")
	b := mustAdd(t, s, "Фильмы", "B")

	if _, err := s.DeleteItem(ctx, a.ID); err != nil {
		t.Fatalf("DeleteItem(a): %v", err)
	}
	if _, err := s.DeleteItem(ctx, b.ID); err != nil {
		t.Fatalf("DeleteItem(b): %v", err)
	}
	if _, err := s.Undo(ctx); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := sectionTexts(t, s, "Фильмы"); !slices.Equal(got, []string{"B"}) {
		t.Fatalf("only the latest delete should be undone, got %v", got)
	}
}

func TestUndoSurvivesRestartWithinWindow(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, false)
	ctx := context.Background()
	it := mustAdd(t, s, "Фильмы", "A")
	if _, err := s.AddTag(ctx, it.ID, "Drama"); err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	if _, err := s.ClearTags(ctx, it.ID); err != nil {
		t.Fatalf("ClearTags: %v", err)
	}

	reopened := h.open(t, false)
	entry, ok := reopened.UndoPending()
	if !ok || entry.Kind != undo.KindClearTags {
		t.Fatalf("persisted undo entry = %+v, %v", entry, ok)
	}
	if _, err := reopened.Undo(ctx); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	_, restored, err := reopened.Item(it.ID)
	if err != nil {
		t.Fatalf("Item: %v", err)
	}
	if !slices.Equal(restored.Tags, []string{"drama"}) {
		t.Fatalf("tags after undo = %v", restored.Tags)
	}
}

func TestToggleViewedUndo(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, false)
	ctx := context.Background()
	it := mustAdd(t, s, "Фильмы", "A")

	viewed, err := s.ToggleViewed(ctx, it.ID)
	if err != nil || !viewed {
		t.Fatalf("ToggleViewed = %v, %v", viewed, err)
	}
	if _, err := s.Undo(ctx); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	_, got, _ := s.Item(it.ID)
	if got.IsViewed() {
		t.Fatal("viewed flag should be restored")
	}
}

func TestDeleteSectionRedirectsPrefsAndUndoes(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, false)
	ctx := context.Background()
	mustAdd(t, s, "Сериалы", "Тьма")
	s.UpdatePrefs(ctx, func(p *session.Prefs) { p.Section = "Сериалы" })

	if err := s.DeleteSection(ctx, "Сериалы"); err != nil {
		t.Fatalf("DeleteSection: %v", err)
	}
	if s.Prefs().Section != "Фильмы" {
		t.Fatalf("current section not redirected: %q", s.Prefs().Section)
	}
	if err := s.DeleteSection(ctx, "Фильмы"); !errors.Is(err, library.ErrLastSection) {
		t.Fatalf("deleting last section err = %v", err)
	}
	if _, err := s.Undo(ctx); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := sectionTexts(t, s, "Сериалы"); !slices.Equal(got, []string{"Тьма"}) {
		t.Fatalf("restored section items = %v", got)
	}
}

func TestRenameSectionMergeRedirectsCurrentSection(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, false)
	ctx := context.Background()
	mustAdd(t, s, "Фильмы", "A")
	mustAdd(t, s, "Сериалы", "B")
	s.UpdatePrefs(ctx, func(p *session.Prefs) { p.Section = "Сериалы" })

	merged, err := s.RenameSection(ctx, "Сериалы", "Фильмы")
	if err != nil || !merged {
		t.Fatalf("RenameSection = %v, %v", merged, err)
	}
	if s.Prefs().Section != "Фильмы" {
		t.Fatalf("current section = %q", s.Prefs().Section)
	}
	if got := sectionTexts(t, s, "Фильмы"); !slices.Equal(got, []string{"A", "B"}) {
		t.Fatalf("merged items = %v", got)
	}
}

func TestPrefsPersistAcrossSessions(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, false)
	s.UpdatePrefs(context.Background(), func(p *session.Prefs) {
		p.Section = "Сериалы"
		p.Sort = view.Sort{Key: view.SortAlpha, Dir: view.Asc}
		p.Query = "тьма"
		p.Tags = []string{"drama"}
		p.ShowViewed = true
	})

	got := h.open(t, false).Prefs()
	if got.Section != "Сериалы" || got.Query != "тьма" || !got.ShowViewed {
		t.Fatalf("prefs = %+v", got)
	}
	if got.Sort != (view.Sort{Key: view.SortAlpha, Dir: view.Asc}) {
		t.Fatalf("sort = %v", got.Sort)
	}
	if !slices.Equal(got.Tags, []string{"drama"}) {
		t.Fatalf("tags = %v", got.Tags)
	}
}

func TestResolveIDAcceptsUniquePrefix(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, false)
	it := mustAdd(t, s, "Фильмы", "A")

	id, err := s.ResolveID(it.ID[:8])
	if err != nil || id != it.ID {
		t.Fatalf("ResolveID = %q, %v", id, err)
	}
	if _, err := s.ResolveID("zzzz"); !errors.Is(err, library.ErrItemNotFound) {
		t.Fatalf("unknown prefix err = %v", err)
	}
}

func TestApplyEditReconcilesAndTracksPending(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, true)
	ctx := context.Background()
	a := mustAdd(t, s, "Фильмы", "A")
	b := mustAdd(t, s, "Фильмы", "B")
	s.Dismiss(ctx, a.ID)
	s.Dismiss(ctx, b.ID)

	buf := s.BuildEdit(view.Scope{Section: "Фильмы"}, view.Filter{})
	if buf.Text != "A\nB\n" {
		t.Fatalf("buffer = %q", buf.Text)
	}
	plan, err := s.ApplyEdit(ctx, buf, "A2\nC\n")
	if err != nil {
		t.Fatalf("ApplyEdit: %v", err)
	}
	if len(plan.Created()) != 0 || len(plan.Renamed()) != 2 || len(plan.Dropped()) != 0 {
		t.Fatalf("plan created=%v renamed=%v dropped=%v", plan.Created(), plan.Renamed(), plan.Dropped())
	}
	if got := sectionTexts(t, s, "Фильмы"); !slices.Equal(got, []string{"A2", "C"}) {
		t.Fatalf("items = %v", got)
	}
	for _, p := range s.Pending(ctx) {
		if p.State != pending.PendingSearch {
			t.Fatalf("renamed item %s state = %v", p.ID, p.State)
		}
	}
	if len(s.Pending(ctx)) != 2 {
		t.Fatalf("expected both renamed items pending, got %d", len(s.Pending(ctx)))
	}

	buf = s.BuildEdit(view.Scope{Section: "Фильмы"}, view.Filter{})
	plan, err = s.ApplyEdit(ctx, buf, "A2\n")
	if err != nil {
		t.Fatalf("ApplyEdit: %v", err)
	}
	if !slices.Equal(plan.Dropped(), []string{b.ID}) {
		t.Fatalf("dropped = %v", plan.Dropped())
	}
	if len(s.Pending(ctx)) != 1 {
		t.Fatalf("dropped item should leave the workflow, pending = %d", len(s.Pending(ctx)))
	}
}

func TestOpenFromConfigUsesFileBackend(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDefaultSections("Книги"))
	s, err := session.Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.AddItem(context.Background(), "Книги", "Мастер и Маргарита"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(cfg.Storage.File)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	doc, err := library.DecodeDocument(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Items[0].Text != "Мастер и Маргарита" {
		t.Fatalf("document = %s", data)
	}
	if s.CatalogEnabled() {
		t.Fatal("catalog should be disabled without an api key")
	}
}
