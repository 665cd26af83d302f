package wsdiff

import (
	"strings"
	"testing"

	"github.com/gitscope/gitscope/internal/diffmodel"
)

func TestIsWhitespaceOnlyChange(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"foo bar", "foo  bar", true},
		{"\tfoo", "    foo", true},
		{"foo", "foo\n", true},
		{"foo bar", "foobar", true}, // internal whitespace removed entirely
		{"foo", "bar", false},
		{"foo bar", "foo baz", false},
		{"", "   ", true},
		{"", "", true},
	}

	for _, tt := range tests {
		if got := IsWhitespaceOnlyChange(tt.a, tt.b); got != tt.want {
			t.Errorf("IsWhitespaceOnlyChange(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

// The reconstruction property: unchanged+removed segments rebuild the old
// line, unchanged+added segments rebuild the new line.
func TestInlineDiffReconstructs(t *testing.T) {
	pairs := [][2]string{
		{"foo bar", "foo  bar"},
		{"\tindented()", "    indented()"},
		{"a b c", "a\tb\tc"},
		{"trailing ", "trailing"},
		{"  lead", "lead"},
		{"same same", "same same"},
		{"x\n", "x"},
	}

	for _, p := range pairs {
		if !IsWhitespaceOnlyChange(p[0], p[1]) {
			t.Fatalf("test pair (%q, %q) is not whitespace-only", p[0], p[1])
		}
		segs := InlineDiff(p[0], p[1])

		var oldSb, newSb strings.Builder
		for _, s := range segs {
			switch s.Kind {
			case Unchanged:
				oldSb.WriteString(s.Text)
				newSb.WriteString(s.Text)
			case Removed:
				oldSb.WriteString(s.Text)
			case Added:
				newSb.WriteString(s.Text)
			}
		}

		wantOld := strings.TrimSuffix(p[0], "\n")
		wantNew := strings.TrimSuffix(p[1], "\n")
		if oldSb.String() != wantOld {
			t.Errorf("InlineDiff(%q, %q): old rebuilds to %q", p[0], p[1], oldSb.String())
		}
		if newSb.String() != wantNew {
			t.Errorf("InlineDiff(%q, %q): new rebuilds to %q", p[0], p[1], newSb.String())
		}
	}
}

func TestInlineDiffSegmentOrder(t *testing.T) {
	// Differing runs emit removed before added.
	segs := InlineDiff("a  b", "a b")
	var kinds []Kind
	for _, s := range segs {
		kinds = append(kinds, s.Kind)
	}
	want := []Kind{Unchanged, Removed, Added, Unchanged}
	if len(kinds) != len(want) {
		t.Fatalf("segment kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("segment kinds = %v, want %v", kinds, want)
		}
	}
}

// The lockstep walk aligns word runs positionally, so it assumes the two
// lines agree on non-whitespace content. When they do not — extra
// characters on one side, or whitespace moved across a word boundary,
// which strip-based detection still accepts — the walk must terminate
// and still account for every character: the new line always rebuilds
// exactly from unchanged+added segments.
func TestInlineDiffDivergentContent(t *testing.T) {
	pairs := [][2]string{
		{"ab", "a"},      // old side has leftover characters
		{"a", "ab"},      // new side has extra characters
		{"ab c", "a bc"}, // whitespace moved across a word boundary
		{"x", "y"},
	}

	for _, p := range pairs {
		segs := InlineDiff(p[0], p[1])

		var newSb strings.Builder
		for _, s := range segs {
			if s.Kind != Removed {
				newSb.WriteString(s.Text)
			}
		}
		if newSb.String() != p[1] {
			t.Errorf("InlineDiff(%q, %q): new rebuilds to %q", p[0], p[1], newSb.String())
		}
	}

	// When only the old side has leftover text, it drains as removed and
	// the old line rebuilds too.
	var oldSb strings.Builder
	for _, s := range InlineDiff("ab", "a") {
		if s.Kind != Added {
			oldSb.WriteString(s.Text)
		}
	}
	if oldSb.String() != "ab" {
		t.Errorf("old rebuilds to %q, want %q", oldSb.String(), "ab")
	}
}

func TestFindPairs(t *testing.T) {
	hunk := &diffmodel.DiffHunk{
		Lines: []diffmodel.DiffLine{
			diffmodel.NewContextLine("unchanged", 1, 1),
			diffmodel.NewDeletionLine("\tindented", 2),
			diffmodel.NewAdditionLine("    indented", 2),
			diffmodel.NewDeletionLine("gone", 3),
			diffmodel.NewAdditionLine("different", 3),
		},
	}

	pairs := FindPairs(hunk)
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	if pairs[0].Deletion != 1 || pairs[0].Addition != 2 {
		t.Errorf("pair = %+v, want {Deletion:1 Addition:2}", pairs[0])
	}
}

// An intervening context line prevents pairing even when the contents
// are whitespace-equivalent; pairing looks at adjacent indices only.
func TestFindPairsRequiresAdjacency(t *testing.T) {
	hunk := &diffmodel.DiffHunk{
		Lines: []diffmodel.DiffLine{
			diffmodel.NewDeletionLine("\tfoo", 1),
			diffmodel.NewContextLine("bar", 2, 1),
			diffmodel.NewAdditionLine("    foo", 2),
		},
	}
	if pairs := FindPairs(hunk); len(pairs) != 0 {
		t.Errorf("got %d pairs, want 0", len(pairs))
	}
}

func TestPairCache(t *testing.T) {
	hunk := &diffmodel.DiffHunk{
		Lines: []diffmodel.DiffLine{
			diffmodel.NewDeletionLine("a b", 1),
			diffmodel.NewAdditionLine("a  b", 1),
		},
	}

	c := NewPairCache()
	if got := c.Get(0, hunk); len(got) != 1 {
		t.Fatalf("got %d pairs, want 1", len(got))
	}
	if !c.PairedAddition(0, hunk, 1) {
		t.Error("line 1 should be a paired addition")
	}
	if c.PairedAddition(0, hunk, 0) {
		t.Error("line 0 is a deletion, not a paired addition")
	}

	c.Clear()
	if got := c.Get(0, hunk); len(got) != 1 {
		t.Errorf("recompute after Clear got %d pairs, want 1", len(got))
	}
}
