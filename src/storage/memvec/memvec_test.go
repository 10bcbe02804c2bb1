package memvec_test

import (
	"testing"

	"ragbench/src/storage/memvec"
)

func TestAddRejectsDimensionMismatch(t *testing.T) {
	store := memvec.NewStore()

	err := store.Add([]memvec.Object{
		{ID: "a", Vector: []float32{1, 0, 0}},
		{ID: "b", Vector: []float32{1, 0}},
	})
	if err == nil {
		t.Error("Add() accepted mismatched dimensions, want error")
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d after partial add, want 1", store.Len())
	}
}

func TestQueryOrdering(t *testing.T) {
	store := memvec.NewStore()
	err := store.Add([]memvec.Object{
		{ID: "east", Vector: []float32{1, 0}},
		{ID: "north", Vector: []float32{0, 1}},
		{ID: "northeast", Vector: []float32{1, 1}},
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	matches, err := store.Query([]float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	wantIDs := []string{"east", "northeast", "north"}
	if len(matches) != len(wantIDs) {
		t.Fatalf("Query() returned %d matches, want %d", len(matches), len(wantIDs))
	}
	for i, match := range matches {
		if match.ID != wantIDs[i] {
			t.Errorf("match %d = %q, want %q", i, match.ID, wantIDs[i])
		}
		if i > 0 && match.Distance < matches[i-1].Distance {
			t.Errorf("match %d distance %v is closer than match %d distance %v",
				i, match.Distance, i-1, matches[i-1].Distance)
		}
	}
}

func TestQueryBreaksTiesByInsertionOrder(t *testing.T) {
	store := memvec.NewStore()
	err := store.Add([]memvec.Object{
		{ID: "first", Vector: []float32{0, 1}},
		{ID: "second", Vector: []float32{0, 1}},
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	matches, err := store.Query([]float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if matches[0].ID != "first" || matches[1].ID != "second" {
		t.Errorf("Query() tie order = [%s %s], want insertion order", matches[0].ID, matches[1].ID)
	}
}

func TestQueryClampsKToStoreSize(t *testing.T) {
	store := memvec.NewStore()
	err := store.Add([]memvec.Object{
		{ID: "only", Vector: []float32{1, 0}},
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	matches, err := store.Query([]float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("Query() returned %d matches, want 1", len(matches))
	}
}

func TestQueryRejectsNonPositiveK(t *testing.T) {
	store := memvec.NewStore()

	if _, err := store.Query([]float32{1, 0}, 0); err == nil {
		t.Error("Query() accepted k=0, want error")
	}
}
