package pending_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"shelf/internal/enrich"
	"shelf/internal/kv"
	"shelf/internal/pending"
)

func newRegistry(t *testing.T) *pending.Registry {
	t.Helper()
	r, err := pending.NewRegistry(context.Background(), pending.NewMemorySet())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t)
	if err := r.Open(ctx, "item"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	first, _ := r.Begin("item")
	second, _ := r.Begin("item")

	state, applied := r.Resolve(ctx, "item", second, []enrich.Candidate{{ID: 2, LocalizedTitle: "second"}}, nil)
	if !applied || state != pending.PendingChoice {
		t.Fatalf("second response: state=%v applied=%v", state, applied)
	}
	if _, applied := r.Resolve(ctx, "item", first, []enrich.Candidate{{ID: 1, LocalizedTitle: "first"}}, nil); applied {
		t.Fatal("stale response must not apply")
	}
	got := r.Candidates("item")
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("candidates = %+v", got)
	}
}

func TestEmptyOrFailedSearchReturnsToClean(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t)
	_ = r.Open(ctx, "a")
	_ = r.Open(ctx, "b")

	tokA, _ := r.Begin("a")
	if state, _ := r.Resolve(ctx, "a", tokA, nil, nil); state != pending.Clean {
		t.Fatalf("zero candidates state = %v", state)
	}
	tokB, _ := r.Begin("b")
	if state, _ := r.Resolve(ctx, "b", tokB, nil, errors.New("offline")); state != pending.Clean {
		t.Fatalf("error state = %v", state)
	}
	if ids := r.IDs(); len(ids) != 0 {
		t.Fatalf("ids = %v", ids)
	}
	if _, ok := r.Begin("a"); ok {
		t.Fatal("clean item must not issue tokens")
	}
}

func TestResponseAfterClearIsIgnored(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t)
	_ = r.Open(ctx, "a")
	tok, _ := r.Begin("a")
	r.Clear(ctx, "a")
	if state, applied := r.Resolve(ctx, "a", tok, []enrich.Candidate{{ID: 1}}, nil); applied || state != pending.Clean {
		t.Fatalf("state=%v applied=%v", state, applied)
	}
}

func TestReopenIssuesHigherTokens(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t)
	_ = r.Open(ctx, "a")
	old, _ := r.Begin("a")
	r.Clear(ctx, "a")
	_ = r.Open(ctx, "a")
	fresh, _ := r.Begin("a")
	if fresh <= old {
		t.Fatalf("token went backwards: %d <= %d", fresh, old)
	}
}

func TestReopenSupersedesSearchInFlight(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t)
	_ = r.Open(ctx, "a")
	tok, _ := r.Begin("a")
	_ = r.Open(ctx, "a")
	if state, applied := r.Resolve(ctx, "a", tok, []enrich.Candidate{{ID: 1}}, nil); applied || state != pending.PendingSearch {
		t.Fatalf("state=%v applied=%v", state, applied)
	}
	if got := r.Candidates("a"); len(got) != 0 {
		t.Fatalf("candidates = %+v", got)
	}
}

func TestRegistryRestoresFromKV(t *testing.T) {
	ctx := context.Background()
	store, err := kv.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("kv.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	r, err := pending.NewRegistry(ctx, store)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	_ = r.Open(ctx, "search")
	_ = r.Open(ctx, "choice")
	tok, _ := r.Begin("choice")
	r.Resolve(ctx, "choice", tok, []enrich.Candidate{{ID: 7, LocalizedTitle: "Heat"}}, nil)

	restored, err := pending.NewRegistry(ctx, store)
	if err != nil {
		t.Fatalf("NewRegistry restore: %v", err)
	}
	if !reflect.DeepEqual(restored.IDs(), []string{"search", "choice"}) {
		t.Fatalf("ids = %v", restored.IDs())
	}
	if restored.State("search") != pending.PendingSearch {
		t.Fatalf("search state = %v", restored.State("search"))
	}
	if restored.State("choice") != pending.PendingChoice || restored.Candidates("choice")[0].ID != 7 {
		t.Fatalf("choice state = %v candidates=%+v", restored.State("choice"), restored.Candidates("choice"))
	}
}
