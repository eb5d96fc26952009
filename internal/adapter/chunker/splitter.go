package chunker

import (
	"strings"

	"docqa/internal/domain"
)

// DefaultMaxLen is the default maximum fragment length in characters.
const DefaultMaxLen = 1000

// DefaultOverlap is the default overlap between adjacent fragments.
const DefaultOverlap = 150

// separators are tried largest-boundary-first when a span exceeds the
// maximum fragment length. A span that fits no separator is split on runes.
var separators = []string{"\n\n", "\n", ". ", " "}

// Splitter splits raw document text into overlapping fragments. It holds
// only configuration, so one Splitter can be shared across documents.
type Splitter struct {
	maxLen  int
	overlap int
}

func NewSplitter(maxLen, overlap int) *Splitter {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= maxLen {
		overlap = maxLen / 4
	}
	return &Splitter{maxLen: maxLen, overlap: overlap}
}

type span struct {
	text   string
	offset int
}

// Split splits text into fragments of at most the configured length,
// tagging each with sourceName for citation. Whitespace-only fragments
// are dropped. Split is a pure function of its input.
func (s *Splitter) Split(text, sourceName string) []domain.Fragment {
	units := s.units(text, 0, 0)
	merged := s.merge(units)

	fragments := make([]domain.Fragment, 0, len(merged))
	for _, sp := range merged {
		trimmed := strings.TrimSpace(sp.text)
		if trimmed == "" {
			continue
		}
		fragments = append(fragments, domain.Fragment{
			Text:   trimmed,
			Source: sourceName,
			Offset: sp.offset,
		})
	}
	return fragments
}

// units breaks text into spans no longer than maxLen, trying the largest
// available boundary first.
func (s *Splitter) units(text string, sepIdx, offset int) []span {
	if len(text) <= s.maxLen {
		if text == "" {
			return nil
		}
		return []span{{text: text, offset: offset}}
	}
	if sepIdx >= len(separators) {
		return s.hardSplit(text, offset)
	}

	parts := strings.SplitAfter(text, separators[sepIdx])
	if len(parts) == 1 {
		return s.units(text, sepIdx+1, offset)
	}

	var out []span
	off := offset
	for _, p := range parts {
		if p == "" {
			continue
		}
		if len(p) > s.maxLen {
			out = append(out, s.units(p, sepIdx+1, off)...)
		} else {
			out = append(out, span{text: p, offset: off})
		}
		off += len(p)
	}
	return out
}

// hardSplit is the last resort: cut on rune boundaries at maxLen.
func (s *Splitter) hardSplit(text string, offset int) []span {
	var out []span
	start := 0
	size := 0
	for i, r := range text {
		rl := len(string(r))
		if size+rl > s.maxLen {
			out = append(out, span{text: text[start:i], offset: offset + start})
			start = i
			size = 0
		}
		size += rl
	}
	if start < len(text) {
		out = append(out, span{text: text[start:], offset: offset + start})
	}
	return out
}

// merge greedily packs spans into fragments up to maxLen. Each new
// fragment restarts from the trailing spans of the previous one, rewinding
// whole spans worth at most the configured overlap so context crossing a
// split point survives in both fragments.
func (s *Splitter) merge(units []span) []span {
	if len(units) == 0 {
		return nil
	}

	var fragments []span
	i := 0
	for i < len(units) {
		j := i
		size := 0
		var text strings.Builder
		for j < len(units) && (size == 0 || size+len(units[j].text) <= s.maxLen) {
			text.WriteString(units[j].text)
			size += len(units[j].text)
			j++
		}
		fragments = append(fragments, span{text: text.String(), offset: units[i].offset})

		if j >= len(units) {
			break
		}

		back := 0
		k := j
		for k > i+1 && back+len(units[k-1].text) <= s.overlap {
			back += len(units[k-1].text)
			k--
		}
		i = k
	}
	return fragments
}
