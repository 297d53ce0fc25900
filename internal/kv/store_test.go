package kv_test

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"shelf/internal/kv"
)

func openStore(t *testing.T) *kv.Store {
	t.Helper()
	store, err := kv.Open(filepath.Join(t.TempDir(), "state", "state.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get missing: ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "sort", "alpha:asc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, "sort", "year:desc"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if v, ok, err := store.Get(ctx, "sort"); err != nil || !ok || v != "year:desc" {
		t.Fatalf("Get = %q ok=%v err=%v", v, ok, err)
	}
	if err := store.Delete(ctx, "sort"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "sort"); ok {
		t.Fatal("key should be gone")
	}
}

func TestJSONValues(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	type prefs struct {
		Tags []string `json:"tags"`
	}
	if err := store.SetJSON(ctx, "filter", prefs{Tags: []string{"drama"}}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	var got prefs
	if ok, err := store.GetJSON(ctx, "filter", &got); err != nil || !ok {
		t.Fatalf("GetJSON ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got.Tags, []string{"drama"}) {
		t.Fatalf("tags = %v", got.Tags)
	}
}

func TestSets(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	for _, id := range []string{"b", "a", "b"} {
		if err := store.SetAdd(ctx, "pending", id); err != nil {
			t.Fatalf("SetAdd: %v", err)
		}
	}
	members, err := store.SetMembers(ctx, "pending")
	if err != nil {
		t.Fatalf("SetMembers: %v", err)
	}
	if !reflect.DeepEqual(members, []string{"b", "a"}) {
		t.Fatalf("members = %v", members)
	}
	if err := store.SetRemove(ctx, "pending", "b"); err != nil {
		t.Fatalf("SetRemove: %v", err)
	}
	if ok, _ := store.SetContains(ctx, "pending", "b"); ok {
		t.Fatal("b should be removed")
	}
	if ok, _ := store.SetContains(ctx, "pending", "a"); !ok {
		t.Fatal("a should remain")
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := kv.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.SetAdd(ctx, "pending", "x"); err != nil {
		t.Fatalf("SetAdd: %v", err)
	}
	_ = store.Close()

	reopened, err := kv.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if ok, _ := reopened.SetContains(ctx, "pending", "x"); !ok {
		t.Fatal("member lost across reopen")
	}
}
