package rageval_test

import (
	"reflect"
	"testing"

	"ragbench/src/core/rageval"
)

func TestSplitAssignsIDsAndOrder(t *testing.T) {
	docs := []rageval.Document{
		{Name: "guide.pdf", Page: 1, Content: "first page text"},
		{Name: "guide.pdf", Page: 2, Content: "second page text"},
		{Name: "notes.txt", Page: 1, Content: "some notes"},
	}

	// Chunk size far above the content length keeps one node per document,
	// so the ID and order assignment can be checked exactly.
	splitter := rageval.NewSplitter(512, 0)
	nodes, err := splitter.Split(docs)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	if len(nodes) != 3 {
		t.Fatalf("Split() produced %d nodes, want 3", len(nodes))
	}

	wantIDs := []string{"guide.pdf-p1-c0", "guide.pdf-p2-c0", "notes.txt-p1-c0"}
	for i, node := range nodes {
		if node.ID != wantIDs[i] {
			t.Errorf("node %d ID = %q, want %q", i, node.ID, wantIDs[i])
		}
		if node.Order != i {
			t.Errorf("node %d Order = %d, want %d", i, node.Order, i)
		}
		if node.DocumentName != docs[i].Name {
			t.Errorf("node %d DocumentName = %q, want %q", i, node.DocumentName, docs[i].Name)
		}
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	docs := []rageval.Document{
		{
			Name: "long.txt",
			Page: 1,
			Content: "The quick brown fox jumps over the lazy dog. " +
				"Pack my box with five dozen liquor jugs. " +
				"How vexingly quick daft zebras jump. " +
				"Sphinx of black quartz, judge my vow.",
		},
	}

	first, err := rageval.NewSplitter(16, 4).Split(docs)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	second, err := rageval.NewSplitter(16, 4).Split(docs)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Split() not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if len(first) < 2 {
		t.Errorf("Split() produced %d nodes, want at least 2 for this chunk size", len(first))
	}
}
