package tui

import (
	"strings"
	"testing"

	"github.com/gitscope/gitscope/internal/diffmodel"
	"github.com/gitscope/gitscope/internal/imagediff"
	"github.com/gitscope/gitscope/internal/worddiff"
	"github.com/gitscope/gitscope/internal/wsdiff"
)

func renderFixture() *diffmodel.DiffFile {
	return &diffmodel.DiffFile{
		Path:   "main.txt",
		Status: diffmodel.StatusModified,
		Hunks: []diffmodel.DiffHunk{{
			Header:   "@@ -1,3 +1,3 @@",
			OldStart: 1, OldLines: 3,
			NewStart: 1, NewLines: 3,
			Lines: []diffmodel.DiffLine{
				diffmodel.NewContextLine("alpha", 1, 1),
				diffmodel.NewDeletionLine("beta one", 2),
				diffmodel.NewAdditionLine("beta two", 2),
				diffmodel.NewContextLine("gamma", 3, 3),
			},
		}},
	}
}

func renderRows(t *testing.T, file *diffmodel.DiffFile, sel diffmodel.LineKeySet) []displayLine {
	t.Helper()
	return renderDiff(file, sel, worddiff.NewCache(), wsdiff.NewPairCache(), nil, 120)
}

func TestRenderDiffRows(t *testing.T) {
	rows := renderRows(t, renderFixture(), diffmodel.NewLineKeySet())

	// Header row plus one row per line.
	if len(rows) != 5 {
		t.Fatalf("len(rows) = %d, want 5", len(rows))
	}
	if !strings.Contains(rows[0].text, "@@ -1,3 +1,3 @@") {
		t.Errorf("header row = %q", rows[0].text)
	}
	if rows[0].selectable {
		t.Error("header row should not be selectable")
	}

	want := []struct {
		substr     string
		selectable bool
	}{
		{"alpha", false},
		{"beta", true},
		{"beta", true},
		{"gamma", false},
	}
	for i, w := range want {
		row := rows[i+1]
		if !strings.Contains(row.text, w.substr) {
			t.Errorf("row %d = %q, want substring %q", i+1, row.text, w.substr)
		}
		if row.selectable != w.selectable {
			t.Errorf("row %d selectable = %v, want %v", i+1, row.selectable, w.selectable)
		}
	}
	if rows[2].key != (diffmodel.LineKey{Hunk: 0, Line: 1}) {
		t.Errorf("deletion row key = %+v", rows[2].key)
	}
}

// Hunk-wide actions resolve their target through the row under the
// cursor, so header rows must point at their own hunk.
func TestRenderDiffHeaderRowsCarryHunkIndex(t *testing.T) {
	file := renderFixture()
	file.Hunks = append(file.Hunks, diffmodel.DiffHunk{
		Header:   "@@ -10,1 +10,1 @@",
		OldStart: 10, OldLines: 1,
		NewStart: 10, NewLines: 1,
		Lines: []diffmodel.DiffLine{
			diffmodel.NewDeletionLine("old", 10),
			diffmodel.NewAdditionLine("new", 10),
		},
	})
	rows := renderRows(t, file, diffmodel.NewLineKeySet())

	var headers []displayLine
	for _, r := range rows {
		if r.key.Line == -1 {
			headers = append(headers, r)
		}
	}
	if len(headers) != 2 {
		t.Fatalf("got %d header rows, want 2", len(headers))
	}
	for i, h := range headers {
		if h.key.Hunk != i {
			t.Errorf("header %d points at hunk %d", i, h.key.Hunk)
		}
		if h.selectable {
			t.Errorf("header %d should not be selectable", i)
		}
	}
}

func TestRenderDiffSelectionMarker(t *testing.T) {
	key := diffmodel.LineKey{Hunk: 0, Line: 1}
	rows := renderRows(t, renderFixture(), diffmodel.NewLineKeySet(key))

	if !strings.Contains(rows[2].text, "*") {
		t.Errorf("selected row missing marker: %q", rows[2].text)
	}
	if strings.Contains(rows[3].text, "*") {
		t.Errorf("unselected row has marker: %q", rows[3].text)
	}
}

func TestRenderDiffCollapsesWhitespacePair(t *testing.T) {
	file := &diffmodel.DiffFile{
		Path:   "main.txt",
		Status: diffmodel.StatusModified,
		Hunks: []diffmodel.DiffHunk{{
			Header:   "@@ -1,1 +1,1 @@",
			OldStart: 1, OldLines: 1,
			NewStart: 1, NewLines: 1,
			Lines: []diffmodel.DiffLine{
				diffmodel.NewDeletionLine("foo  bar", 1),
				diffmodel.NewAdditionLine("foo bar", 1),
			},
		}},
	}
	rows := renderRows(t, file, diffmodel.NewLineKeySet())

	// Header + the collapsed pair as one row.
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if !strings.Contains(rows[1].text, "foo") {
		t.Errorf("collapsed row = %q", rows[1].text)
	}
}

func TestRenderDiffTruncatesToWidth(t *testing.T) {
	file := renderFixture()
	file.Hunks[0].Lines[0].Content = strings.Repeat("x", 300)
	rows := renderDiff(file, diffmodel.NewLineKeySet(), worddiff.NewCache(), wsdiff.NewPairCache(), nil, 40)
	if !strings.Contains(rows[1].text, "…") {
		t.Errorf("long row not truncated: %q", rows[1].text)
	}
}

func TestCounterpartAndDeletionBefore(t *testing.T) {
	h := &renderFixture().Hunks[0]

	if next, ok := counterpart(h, 1); !ok || next != "beta two" {
		t.Errorf("counterpart(1) = %q, %v", next, ok)
	}
	if _, ok := counterpart(h, 0); ok {
		t.Error("context line should have no counterpart")
	}

	prev, key, ok := deletionBefore(h, 0, 2)
	if !ok || prev != "beta one" || key != (diffmodel.LineKey{Hunk: 0, Line: 1}) {
		t.Errorf("deletionBefore(2) = %q, %+v, %v", prev, key, ok)
	}
	if _, _, ok := deletionBefore(h, 0, 1); ok {
		t.Error("deletion has no deletion before it")
	}
}

func TestRenderConflictSpansAndCursor(t *testing.T) {
	text := "x\n<<<<<<< HEAD\nA\n=======\nB\n>>>>>>> feature\ny\n"
	rows := renderConflict(text, 0)

	if len(rows) != 7 {
		t.Fatalf("len(rows) = %d, want 7", len(rows))
	}
	want := []string{"x", "<<<<<<< HEAD", "A", "=======", "B", ">>>>>>> feature", "y"}
	for i, w := range want {
		if !strings.Contains(rows[i], w) {
			t.Errorf("row %d = %q, want substring %q", i, rows[i], w)
		}
	}

	// The cursor bar marks every row of region 0 but not the context.
	for i, row := range rows {
		inRegion := i >= 1 && i <= 5
		if inRegion != strings.HasPrefix(row, "▌") {
			t.Errorf("row %d cursor = %q, inRegion = %v", i, row, inRegion)
		}
	}

	// A cursor pointing at another region marks nothing.
	for i, row := range renderConflict(text, 3) {
		if strings.HasPrefix(row, "▌") {
			t.Errorf("row %d unexpectedly marked: %q", i, row)
		}
	}
}

func TestRenderImageSummary(t *testing.T) {
	res := &imagediff.Result{
		Counts: imagediff.Counts{Added: 1, Removed: 2, Changed: 3, Unchanged: 4},
		Width:  2, Height: 5,
	}
	rows := renderImageSummary(res, 25, false)
	joined := strings.Join(rows, "\n")
	for _, w := range []string{"color threshold: 25", "2×5, 10 pixels", "added", "removed", "changed", "unchanged"} {
		if !strings.Contains(joined, w) {
			t.Errorf("summary missing %q:\n%s", w, joined)
		}
	}

	pending := renderImageSummary(nil, 25, true)
	if !strings.Contains(strings.Join(pending, "\n"), "computing") {
		t.Errorf("pending summary = %q", pending)
	}
	empty := renderImageSummary(nil, 25, false)
	if !strings.Contains(strings.Join(empty, "\n"), "no result") {
		t.Errorf("empty summary = %q", empty)
	}
}
