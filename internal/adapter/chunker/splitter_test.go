package chunker

import (
	"fmt"
	"strings"
	"testing"
)

func TestSplitterShortTextSingleFragment(t *testing.T) {
	s := NewSplitter(1000, 150)

	text := "  Project Hydra status: green.\n"
	fragments := s.Split(text, "status.txt")

	if len(fragments) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(fragments))
	}
	if fragments[0].Text != strings.TrimSpace(text) {
		t.Errorf("expected trimmed input, got %q", fragments[0].Text)
	}
	if fragments[0].Source != "status.txt" {
		t.Errorf("expected source 'status.txt', got %q", fragments[0].Source)
	}
}

func TestSplitterRespectsMaxLen(t *testing.T) {
	s := NewSplitter(80, 20)

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("The quick brown fox jumps over the lazy dog. ")
	}

	fragments := s.Split(sb.String(), "doc")
	if len(fragments) < 2 {
		t.Fatalf("expected multiple fragments, got %d", len(fragments))
	}
	for i, f := range fragments {
		if len(f.Text) > 80 {
			t.Errorf("fragment %d exceeds max length: %d chars", i, len(f.Text))
		}
	}
}

func TestSplitterOverlap(t *testing.T) {
	s := NewSplitter(30, 10)

	var sb strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&sb, "s%02d. ", i)
	}

	fragments := s.Split(sb.String(), "doc")
	if len(fragments) < 2 {
		t.Fatalf("expected multiple fragments, got %d", len(fragments))
	}

	for i := 1; i < len(fragments); i++ {
		prev, cur := fragments[i-1].Text, fragments[i].Text
		if sharedBoundary(prev, cur) == 0 {
			t.Errorf("fragments %d and %d share no boundary text", i-1, i)
		}
	}
}

// sharedBoundary returns the length of the longest suffix of a that is a
// prefix of b.
func sharedBoundary(a, b string) int {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}
	for n := max; n > 0; n-- {
		if strings.HasPrefix(b, a[len(a)-n:]) {
			return n
		}
	}
	return 0
}

func TestSplitterNoWhitespaceOnlyFragments(t *testing.T) {
	s := NewSplitter(30, 5)

	texts := []string{
		"",
		"   \n\t  ",
		"one\n\n\n\n\n\n\ntwo\n\n\n\n",
		strings.Repeat("word ", 50),
	}

	for _, text := range texts {
		for _, f := range s.Split(text, "doc") {
			if strings.TrimSpace(f.Text) == "" {
				t.Errorf("whitespace-only fragment from input %q", text)
			}
		}
	}
}

func TestSplitterProvenanceAndOffsets(t *testing.T) {
	s := NewSplitter(50, 10)

	text := strings.Repeat("Alpha beta gamma delta. ", 10)
	fragments := s.Split(text, "notes.md")

	for i, f := range fragments {
		if f.Source != "notes.md" {
			t.Errorf("fragment %d: expected source 'notes.md', got %q", i, f.Source)
		}
		if f.Offset < 0 || f.Offset >= len(text) {
			t.Errorf("fragment %d: offset %d out of range", i, f.Offset)
		}
		if !strings.HasPrefix(text[f.Offset:], strings.SplitN(f.Text, " ", 2)[0]) {
			t.Errorf("fragment %d: offset %d does not line up with text", i, f.Offset)
		}
	}

	for i := 1; i < len(fragments); i++ {
		if fragments[i].Offset <= fragments[i-1].Offset {
			t.Errorf("offsets not increasing: %d then %d", fragments[i-1].Offset, fragments[i].Offset)
		}
	}
}

func TestSplitterDeterministic(t *testing.T) {
	s := NewSplitter(40, 10)
	text := strings.Repeat("Some repeated content here. ", 15)

	first := s.Split(text, "doc")
	second := s.Split(text, "doc")

	if len(first) != len(second) {
		t.Fatalf("fragment counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("fragment %d differs between runs", i)
		}
	}
}

func TestSplitterHardSplitLongWord(t *testing.T) {
	s := NewSplitter(20, 4)

	text := strings.Repeat("x", 95)
	fragments := s.Split(text, "doc")

	if len(fragments) < 4 {
		t.Fatalf("expected hard split into several fragments, got %d", len(fragments))
	}
	var rebuilt strings.Builder
	for _, f := range fragments {
		if len(f.Text) > 20 {
			t.Errorf("fragment exceeds max length: %d", len(f.Text))
		}
		rebuilt.WriteString(f.Text)
	}
	if rebuilt.String() != text {
		t.Error("hard split lost content")
	}
}

func TestSplitterOverlapClampedToMaxLen(t *testing.T) {
	s := NewSplitter(100, 200)
	if s.overlap >= s.maxLen {
		t.Errorf("overlap %d not clamped below maxLen %d", s.overlap, s.maxLen)
	}
}
