package reconcile_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"shelf/internal/library"
	"shelf/internal/reconcile"
)

func sequentialIDs() reconcile.Option {
	n := 0
	return reconcile.WithIDFunc(func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	})
}

func item(id, text string, tags ...string) *library.Item {
	return &library.Item{ID: id, Text: text, Tags: tags, Rating: 7.5, Description: "desc " + id}
}

func TestMergeByMaskIdempotent(t *testing.T) {
	original := []*library.Item{item("a", "Heat", "crime"), item("b", "Alien"), item("c", "Up")}
	res := reconcile.MergeByMask(original, []bool{true, false, true}, []string{"Heat", "Up"})
	if res.Changed() {
		t.Fatalf("expected no change, got %+v", res)
	}
	if len(res.Items) != 3 {
		t.Fatalf("items = %d", len(res.Items))
	}
	for i, it := range res.Items {
		if !reflect.DeepEqual(it, original[i]) {
			t.Fatalf("item %d = %+v, want %+v", i, it, original[i])
		}
	}
}

func TestMergeByMaskDeletesUnmatchedSlots(t *testing.T) {
	res := reconcile.MergeByMask([]*library.Item{item("a", "Heat")}, []bool{true}, nil)
	if len(res.Items) != 0 {
		t.Fatalf("expected empty output, got %+v", res.Items)
	}
	if !reflect.DeepEqual(res.Dropped, []string{"a"}) {
		t.Fatalf("dropped = %v", res.Dropped)
	}
}

func TestMergeByMaskCreatesFromLeftoverLines(t *testing.T) {
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	original := []*library.Item{item("a", "Heat")}
	res := reconcile.MergeByMask(original, []bool{}, []string{"A", "B"}, sequentialIDs(),
		reconcile.WithClock(func() time.Time { return ts }))
	if len(res.Items) != 3 || res.Items[0] != original[0] {
		t.Fatalf("items = %+v", res.Items)
	}
	if res.Items[1].Text != "A" || res.Items[2].Text != "B" {
		t.Fatalf("new texts = %q, %q", res.Items[1].Text, res.Items[2].Text)
	}
	if res.Items[1].ID == res.Items[2].ID {
		t.Fatal("new ids must be distinct")
	}
	if len(res.Items[1].Tags) != 0 || !res.Items[1].CreatedAt.Equal(ts) {
		t.Fatalf("new item = %+v", res.Items[1])
	}
	if !reflect.DeepEqual(res.Created, []string{"new-1", "new-2"}) {
		t.Fatalf("created = %v", res.Created)
	}
}

func TestMergeByMaskBlankLineAsymmetry(t *testing.T) {
	original := []*library.Item{item("a", "Heat", "crime")}
	res := reconcile.MergeByMask(original, []bool{true}, []string{"  ", "   "})
	if len(res.Items) != 1 {
		t.Fatalf("expected only the kept item, got %d", len(res.Items))
	}
	kept := res.Items[0]
	if kept.ID != "a" || kept.Text != "" || kept.Description != "desc a" {
		t.Fatalf("kept item = %+v", kept)
	}
	if len(res.Created) != 0 {
		t.Fatalf("blank leftover created items: %v", res.Created)
	}
}

func TestMergeByMaskRenameKeepsMetadataOnCopy(t *testing.T) {
	original := []*library.Item{item("a", "Heat", "crime"), item("b", "Alien")}
	res := reconcile.MergeByMask(original, []bool{true, true}, []string{" Heat 1995 ", "Alien"})
	if !reflect.DeepEqual(res.Renamed, []string{"a"}) {
		t.Fatalf("renamed = %v", res.Renamed)
	}
	got := res.Items[0]
	if got == original[0] {
		t.Fatal("kept item should be a copy")
	}
	if got.Text != "Heat 1995" || got.Rating != 7.5 || !reflect.DeepEqual(got.Tags, []string{"crime"}) {
		t.Fatalf("renamed item = %+v", got)
	}
	if original[0].Text != "Heat" {
		t.Fatal("original item mutated")
	}
}

func TestMergeByMaskShortMaskTreatsMissingAsHidden(t *testing.T) {
	original := []*library.Item{item("a", "Heat"), item("b", "Alien")}
	res := reconcile.MergeByMask(original, []bool{true}, []string{"Heat"})
	if len(res.Items) != 2 || res.Items[1] != original[1] {
		t.Fatalf("items = %+v", res.Items)
	}
}

func TestSplitLines(t *testing.T) {
	got := reconcile.SplitLines(" a \r\n\n  \nb")
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("SplitLines = %q", got)
	}
}
