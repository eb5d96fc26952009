package index

import (
	"testing"

	"docqa/internal/domain"
)

func frag(source, text string) domain.Fragment {
	return domain.Fragment{Text: text, Source: source}
}

func TestMemoryIndexSearchOrdering(t *testing.T) {
	idx := NewMemoryIndex(3)

	fragments := []domain.Fragment{
		frag("a", "east"),
		frag("b", "north"),
		frag("c", "northeast"),
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.7, 0.7, 0},
	}
	if err := idx.Append(fragments, vectors); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search([]float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Fragment.Source != "a" {
		t.Errorf("expected 'a' first, got %q", results[0].Fragment.Source)
	}
	if results[1].Fragment.Source != "c" {
		t.Errorf("expected 'c' second, got %q", results[1].Fragment.Source)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted by score at %d", i)
		}
	}
}

func TestMemoryIndexSearchBound(t *testing.T) {
	idx := NewMemoryIndex(2)

	if err := idx.Append(
		[]domain.Fragment{frag("a", "one"), frag("b", "two")},
		[][]float32{{1, 0}, {0, 1}},
	); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search([]float32{1, 1}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("expected results capped at index size 2, got %d", len(results))
	}

	results, err = idx.Search([]float32{1, 1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestMemoryIndexEmpty(t *testing.T) {
	idx := NewMemoryIndex(2)

	results, err := idx.Search([]float32{1, 0}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results from empty index, got %d", len(results))
	}
	if idx.Len() != 0 {
		t.Errorf("expected empty index, got len %d", idx.Len())
	}
}

func TestMemoryIndexDimensionMismatch(t *testing.T) {
	idx := NewMemoryIndex(3)

	err := idx.Append([]domain.Fragment{frag("a", "x")}, [][]float32{{1, 0}})
	if err == nil {
		t.Error("expected error appending wrong-dimension vector")
	}

	if _, err := idx.Search([]float32{1, 0}, 1); err == nil {
		t.Error("expected error searching with wrong-dimension query")
	}
}

func TestMemoryIndexTiesKeepInsertionOrder(t *testing.T) {
	idx := NewMemoryIndex(2)

	if err := idx.Append(
		[]domain.Fragment{frag("first", "x"), frag("second", "x"), frag("third", "x")},
		[][]float32{{1, 0}, {1, 0}, {1, 0}},
	); err != nil {
		t.Fatal(err)
	}

	for run := 0; run < 3; run++ {
		results, err := idx.Search([]float32{1, 0}, 3)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"first", "second", "third"}
		for i, w := range want {
			if results[i].Fragment.Source != w {
				t.Errorf("run %d: position %d: expected %q, got %q", run, i, w, results[i].Fragment.Source)
			}
		}
	}
}
