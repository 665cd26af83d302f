// Package patch builds single-file unified-diff patch text from a
// DiffFile: either one whole hunk, or an arbitrary subset of its
// changed lines (selective staging). The output is byte-exact unified
// diff, acceptable to git apply.
package patch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gitscope/gitscope/internal/diffmodel"
)

// ErrStaleSelection means a selection key addresses a hunk or line that
// does not exist in the given DiffFile; the file was reloaded since the
// selection was made and the patch must not be built from it.
var ErrStaleSelection = errors.New("selection references missing diff line")

// headerLines returns the ---/+++ file header. New and untracked files
// have no "a" side; deleted files have no "b" side.
func headerLines(f *diffmodel.DiffFile) (string, string) {
	oldPath := f.Path
	if f.OldPath != "" {
		oldPath = f.OldPath
	}

	oldSide := "a/" + oldPath
	newSide := "b/" + f.Path
	switch f.Status {
	case diffmodel.StatusNew, diffmodel.StatusUntracked:
		oldSide = "/dev/null"
	case diffmodel.StatusDeleted:
		newSide = "/dev/null"
	}
	return "--- " + oldSide, "+++ " + newSide
}

// FromHunk renders one whole hunk as an applyable patch.
func FromHunk(f *diffmodel.DiffFile, hunkIdx int) (string, error) {
	if hunkIdx < 0 || hunkIdx >= len(f.Hunks) {
		return "", fmt.Errorf("%w: hunk %d of %d", ErrStaleSelection, hunkIdx, len(f.Hunks))
	}
	h := &f.Hunks[hunkIdx]

	var sb strings.Builder
	oldHdr, newHdr := headerLines(f)
	sb.WriteString(oldHdr)
	sb.WriteByte('\n')
	sb.WriteString(newHdr)
	sb.WriteByte('\n')
	sb.WriteString(strings.TrimSpace(h.Header))
	sb.WriteByte('\n')

	for _, l := range h.Lines {
		sb.WriteByte(l.Origin.Prefix())
		sb.WriteString(l.Content)
		sb.WriteByte('\n')
		if l.NoNewline {
			sb.WriteString(diffmodel.NoNewlineMarker)
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

// FromLines renders a patch covering exactly the selected addition and
// deletion lines. The rewrite rules keep the patch self-consistent when
// applied to the index:
//   - context lines pass through and count on both sides;
//   - a selected deletion stays a "-" line (old side only);
//   - an unselected deletion is demoted to context (both sides), so the
//     working copy keeps showing it as deleted on the next diff;
//   - a selected addition stays a "+" line (new side only);
//   - an unselected addition is dropped entirely.
//
// Hunk headers are recomputed from the running counts. A hunk that emits
// no "+"/"-" line is omitted; if no hunk contributes, the result is the
// empty string and must not be submitted to the backend.
func FromLines(f *diffmodel.DiffFile, sel diffmodel.LineKeySet) (string, error) {
	if err := checkSelection(f, sel); err != nil {
		return "", err
	}

	var body strings.Builder
	contributed := false

	for hi := range f.Hunks {
		h := &f.Hunks[hi]
		if !hunkSelected(sel, hi) {
			continue
		}

		var lines strings.Builder
		oldCount, newCount := 0, 0
		changed := false

		for li, l := range h.Lines {
			selected := sel.Has(diffmodel.LineKey{Hunk: hi, Line: li})
			switch l.Origin {
			case diffmodel.OriginContext:
				lines.WriteByte(' ')
				lines.WriteString(l.Content)
				lines.WriteByte('\n')
				oldCount++
				newCount++
			case diffmodel.OriginDeletion:
				if selected {
					lines.WriteByte('-')
					lines.WriteString(l.Content)
					lines.WriteByte('\n')
					oldCount++
					changed = true
				} else {
					// Keep the line present in the index.
					lines.WriteByte(' ')
					lines.WriteString(l.Content)
					lines.WriteByte('\n')
					oldCount++
					newCount++
				}
			case diffmodel.OriginAddition:
				if selected {
					lines.WriteByte('+')
					lines.WriteString(l.Content)
					lines.WriteByte('\n')
					newCount++
					changed = true
				}
				// Unselected additions vanish from the patch.
			}
			if l.NoNewline && (selected || l.Origin == diffmodel.OriginContext || l.Origin == diffmodel.OriginDeletion) {
				lines.WriteString(diffmodel.NoNewlineMarker)
				lines.WriteByte('\n')
			}
		}

		if !changed {
			continue
		}
		fmt.Fprintf(&body, "@@ -%d,%d +%d,%d @@\n", h.OldStart, oldCount, h.NewStart, newCount)
		body.WriteString(lines.String())
		contributed = true
	}

	if !contributed {
		// Degenerate selection, a normal outcome the caller must check.
		return "", nil
	}

	var sb strings.Builder
	oldHdr, newHdr := headerLines(f)
	sb.WriteString(oldHdr)
	sb.WriteByte('\n')
	sb.WriteString(newHdr)
	sb.WriteByte('\n')
	sb.WriteString(body.String())
	return sb.String(), nil
}

// checkSelection refuses stale keys outright rather than silently
// dropping data.
func checkSelection(f *diffmodel.DiffFile, sel diffmodel.LineKeySet) error {
	for k := range sel {
		if _, ok := f.Line(k); !ok {
			return fmt.Errorf("%w: hunk %d line %d", ErrStaleSelection, k.Hunk, k.Line)
		}
	}
	return nil
}

func hunkSelected(sel diffmodel.LineKeySet, hunkIdx int) bool {
	for k := range sel {
		if k.Hunk == hunkIdx {
			return true
		}
	}
	return false
}
