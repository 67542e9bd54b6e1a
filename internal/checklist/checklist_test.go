package checklist

import (
	"strings"
	"testing"
)

func TestEntriesParse(t *testing.T) {
	entries := Entries()
	if len(entries) == 0 {
		t.Fatal("catalog is empty")
	}
	for _, e := range entries {
		if e.Tag == "" || e.Label == "" {
			t.Errorf("entry missing tag or label: %+v", e)
		}
		if len(e.Items) == 0 {
			t.Errorf("entry %s has no items", e.Tag)
		}
	}
}

func TestTagsMatchEntries(t *testing.T) {
	entries := Entries()
	tags := Tags()
	if len(tags) != len(entries) {
		t.Fatalf("Tags() = %d tags, want %d", len(tags), len(entries))
	}
	for i, e := range entries {
		if tags[i] != e.Tag {
			t.Errorf("Tags()[%d] = %q, want %q", i, tags[i], e.Tag)
		}
	}
}

func TestItemsFor(t *testing.T) {
	items := ItemsFor([]string{"auth"})
	if len(items) == 0 {
		t.Fatal("ItemsFor(auth) returned no items")
	}
	for _, item := range items {
		if !strings.HasPrefix(item, "Authentication & Sessions: ") {
			t.Errorf("item missing label prefix: %q", item)
		}
	}
}

func TestItemsForPreservesCatalogOrder(t *testing.T) {
	// Selection order must not matter; catalog order wins.
	a := ItemsFor([]string{"auth", "payments"})
	b := ItemsFor([]string{"payments", "auth"})

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("order differs at %d: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestItemsForUnknownTag(t *testing.T) {
	items := ItemsFor([]string{"does-not-exist"})
	if len(items) != 0 {
		t.Errorf("ItemsFor(unknown) = %d items, want 0", len(items))
	}
}

func TestItemsForEmptySelection(t *testing.T) {
	items := ItemsFor(nil)
	if items == nil {
		t.Error("ItemsFor(nil) should return an empty slice, not nil")
	}
	if len(items) != 0 {
		t.Errorf("ItemsFor(nil) = %d items, want 0", len(items))
	}
}
