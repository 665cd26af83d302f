// Package wsdiff detects line pairs that differ only in whitespace and
// produces an aligned inline diff of their whitespace runs.
package wsdiff

import (
	"strings"
	"unicode"

	"github.com/gitscope/gitscope/internal/diffmodel"
)

// Kind classifies an inline segment.
type Kind int

const (
	Unchanged Kind = iota
	Added
	Removed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unchanged"
	}
}

// Segment is one run of an inline whitespace diff. Unchanged segments
// belong to both sides; Removed segments belong to the old line only and
// Added segments to the new line only.
type Segment struct {
	Text string
	Kind Kind
}

// IsWhitespaceOnlyChange reports whether a and b are equal once every
// whitespace character (internal included) is removed. Trailing newlines
// are stripped first so "a\n" vs "a" does not count as a content change.
func IsWhitespaceOnlyChange(a, b string) bool {
	return stripAllSpace(chomp(a)) == stripAllSpace(chomp(b))
}

func chomp(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

func stripAllSpace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// InlineDiff walks both lines in lockstep, alternating between whitespace
// runs and non-whitespace runs. The caller must have established via
// IsWhitespaceOnlyChange that the two lines agree on all non-whitespace
// content; the non-whitespace runs are then identical by construction and
// emitted unchanged, while differing whitespace runs become a Removed
// segment (old run) followed by an Added segment (new run).
func InlineDiff(oldLine, newLine string) []Segment {
	a, b := chomp(oldLine), chomp(newLine)
	var segs []Segment
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		startI, startJ := i, j
		oldRun := spaceRun(a, i)
		newRun := spaceRun(b, j)
		i += len(oldRun)
		j += len(newRun)
		if oldRun == newRun {
			if oldRun != "" {
				segs = append(segs, Segment{Text: oldRun, Kind: Unchanged})
			}
		} else {
			if oldRun != "" {
				segs = append(segs, Segment{Text: oldRun, Kind: Removed})
			}
			if newRun != "" {
				segs = append(segs, Segment{Text: newRun, Kind: Added})
			}
		}

		word := wordRun(b, j)
		if word != "" {
			segs = append(segs, Segment{Text: word, Kind: Unchanged})
			j += len(word)
			if i += len(word); i > len(a) {
				i = len(a)
			}
		}

		if i == startI && j == startJ {
			// Inputs disagree on non-whitespace content, which the
			// contract forbids. Drain both sides instead of spinning.
			if i < len(a) {
				segs = append(segs, Segment{Text: a[i:], Kind: Removed})
				i = len(a)
			}
			if j < len(b) {
				segs = append(segs, Segment{Text: b[j:], Kind: Added})
				j = len(b)
			}
		}
	}
	return segs
}

// spaceRun returns the maximal whitespace run of s starting at i.
func spaceRun(s string, i int) string {
	j := i
	for j < len(s) && isSpaceByte(s, j) {
		j++
	}
	return s[i:j]
}

// wordRun returns the maximal non-whitespace run of s starting at i.
func wordRun(s string, i int) string {
	j := i
	for j < len(s) && !isSpaceByte(s, j) {
		j++
	}
	return s[i:j]
}

func isSpaceByte(s string, i int) bool {
	c := s[i]
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// Pair records a deletion line and the immediately following addition
// line it was matched with.
type Pair struct {
	Deletion int // line index of the deletion within the hunk
	Addition int // always Deletion+1
}

// FindPairs scans a hunk's lines greedily left to right and pairs each
// deletion with the addition directly after it when the two differ only
// in whitespace. Non-adjacent candidates are never considered; an
// intervening context line prevents pairing.
func FindPairs(hunk *diffmodel.DiffHunk) []Pair {
	var pairs []Pair
	for i := 0; i+1 < len(hunk.Lines); i++ {
		del := hunk.Lines[i]
		add := hunk.Lines[i+1]
		if del.Origin != diffmodel.OriginDeletion || add.Origin != diffmodel.OriginAddition {
			continue
		}
		if !IsWhitespaceOnlyChange(del.Content, add.Content) {
			continue
		}
		pairs = append(pairs, Pair{Deletion: i, Addition: i + 1})
		i++ // the addition is consumed by this pair
	}
	return pairs
}
