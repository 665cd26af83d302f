package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/gitscope/gitscope/internal/diffmodel"
	"github.com/gitscope/gitscope/internal/imagediff"
	"github.com/gitscope/gitscope/internal/markers"
	"github.com/gitscope/gitscope/internal/worddiff"
	"github.com/gitscope/gitscope/internal/wsdiff"
)

// displayLine is one rendered row of the diff view plus the key it
// addresses, if it addresses a selectable diff line at all.
type displayLine struct {
	text       string
	key        diffmodel.LineKey
	selectable bool
}

// renderDiff flattens a DiffFile into display rows. Word-diff results
// come from the per-file cache; whitespace-only pairs collapse the
// addition row into an inline rendering on the deletion row.
func renderDiff(
	file *diffmodel.DiffFile,
	sel diffmodel.LineKeySet,
	words *worddiff.Cache,
	pairs *wsdiff.PairCache,
	hl *highlighter,
	width int,
) []displayLine {
	var rows []displayLine

	for hi := range file.Hunks {
		h := &file.Hunks[hi]
		// Header rows are not selectable but still carry their hunk
		// index so hunk-wide actions work from the header.
		rows = append(rows, displayLine{
			text: hunkHeaderStyle.Render(strings.TrimSpace(h.Header)),
			key:  diffmodel.LineKey{Hunk: hi, Line: -1},
		})

		for li, l := range h.Lines {
			key := diffmodel.LineKey{Hunk: hi, Line: li}

			if pairs.PairedAddition(hi, h, li) {
				// Rendered inline on the deletion row above.
				continue
			}

			marker := "  "
			if sel.Has(key) {
				marker = selectedMarkerStyle.Render("* ")
			}

			var body string
			switch l.Origin {
			case diffmodel.OriginDeletion:
				if paired, ok := pairFor(pairs, hi, h, li); ok {
					body = removedLineStyle.Render("-") + renderWhitespace(l.Content, h.Lines[paired].Content)
				} else if next, ok := counterpart(h, li); ok {
					body = removedLineStyle.Render("-") + renderWordSegments(words.Get(key, l.Content, next).Old, wordChangedOldStyle, removedLineStyle)
				} else {
					body = removedLineStyle.Render("-" + l.Content)
				}
			case diffmodel.OriginAddition:
				if prev, prevKey, ok := deletionBefore(h, hi, li); ok {
					body = addedLineStyle.Render("+") + renderWordSegments(words.Get(prevKey, prev, l.Content).New, wordChangedNewStyle, addedLineStyle)
				} else {
					body = addedLineStyle.Render("+" + l.Content)
				}
			default:
				body = contextLineStyle.Render(" ") + hl.Line(l.Content)
			}

			row := marker + lineNumberStyle.Render(lineNumbers(l)) + " " + body
			rows = append(rows, displayLine{
				text:       runewidth.Truncate(row, max(width, 8), "…"),
				key:        key,
				selectable: l.Origin != diffmodel.OriginContext,
			})
		}
	}
	return rows
}

// pairFor returns the addition index paired with the deletion at li.
func pairFor(pairs *wsdiff.PairCache, hi int, h *diffmodel.DiffHunk, li int) (int, bool) {
	for _, p := range pairs.Get(hi, h) {
		if p.Deletion == li {
			return p.Addition, true
		}
	}
	return 0, false
}

// counterpart finds the addition line immediately following a deletion,
// the pair the word diff highlights against.
func counterpart(h *diffmodel.DiffHunk, li int) (string, bool) {
	if li+1 < len(h.Lines) && h.Lines[li+1].Origin == diffmodel.OriginAddition {
		return h.Lines[li+1].Content, true
	}
	return "", false
}

// deletionBefore finds the deletion directly above an addition along
// with its cache key.
func deletionBefore(h *diffmodel.DiffHunk, hi, li int) (string, diffmodel.LineKey, bool) {
	if li > 0 && h.Lines[li-1].Origin == diffmodel.OriginDeletion {
		return h.Lines[li-1].Content, diffmodel.LineKey{Hunk: hi, Line: li - 1}, true
	}
	return "", diffmodel.LineKey{}, false
}

func renderWordSegments(segs []worddiff.Segment, changed, unchanged lipgloss.Style) string {
	var sb strings.Builder
	for _, s := range segs {
		if s.Changed {
			sb.WriteString(changed.Render(s.Text))
		} else {
			sb.WriteString(unchanged.Render(s.Text))
		}
	}
	return sb.String()
}

// renderWhitespace shows a whitespace-only pair as one row with the
// whitespace runs of both sides marked.
func renderWhitespace(oldLine, newLine string) string {
	var sb strings.Builder
	for _, s := range wsdiff.InlineDiff(oldLine, newLine) {
		switch s.Kind {
		case wsdiff.Added:
			sb.WriteString(wsAddedStyle.Render(s.Text))
		case wsdiff.Removed:
			sb.WriteString(wsRemovedStyle.Render(s.Text))
		default:
			sb.WriteString(contextLineStyle.Render(s.Text))
		}
	}
	return sb.String()
}

func lineNumbers(l diffmodel.DiffLine) string {
	oldNo, newNo := "    ", "    "
	if l.OldLineNo > 0 {
		oldNo = fmt.Sprintf("%4d", l.OldLineNo)
	}
	if l.NewLineNo > 0 {
		newNo = fmt.Sprintf("%4d", l.NewLineNo)
	}
	return oldNo + " " + newNo
}

// renderConflict shows a file's conflict regions with side highlights.
func renderConflict(text string, regionCursor int) []string {
	var rows []string
	lines := markers.SplitLines(text)
	regions := markers.ScanRegions(text)

	type span struct {
		ours, theirs, marker bool
		region               int
	}
	kind := make([]span, len(lines))
	for _, r := range regions {
		for i := r.OursStart; i < r.OursEnd; i++ {
			kind[i] = span{ours: true, region: r.Index}
		}
		for i := r.TheirsStart; i < r.TheirsEnd; i++ {
			kind[i] = span{theirs: true, region: r.Index}
		}
		kind[r.StartLine] = span{marker: true, region: r.Index}
		kind[r.EndLine] = span{marker: true, region: r.Index}
		for i := r.OursEnd; i < r.TheirsStart; i++ {
			kind[i] = span{marker: true, region: r.Index}
		}
	}

	for i, line := range lines {
		k := kind[i]
		var row string
		switch {
		case k.marker:
			row = conflictMarkerStyle.Render(line)
		case k.ours:
			row = oursStyle.Render(line)
		case k.theirs:
			row = theirsStyle.Render(line)
		default:
			row = contextLineStyle.Render(line)
		}
		if (k.marker || k.ours || k.theirs) && k.region == regionCursor {
			row = "▌" + row
		} else {
			row = " " + row
		}
		rows = append(rows, row)
	}
	return rows
}

// renderImageSummary shows the classification counts and percentages.
func renderImageSummary(res *imagediff.Result, threshold int, pending bool) []string {
	rows := []string{
		titleStyle.Render("image diff"),
		fmt.Sprintf("color threshold: %d (+/- to adjust)", threshold),
		"",
	}
	if pending {
		rows = append(rows, "computing…")
		return rows
	}
	if res == nil {
		rows = append(rows, "no result")
		return rows
	}
	c := res.Counts
	rows = append(rows,
		fmt.Sprintf("%d×%d, %d pixels", res.Width, res.Height, c.Total()),
		imgAddedStyle.Render(fmt.Sprintf("added     %8d  %6.2f%%", c.Added, c.Percent(c.Added))),
		imgRemovedStyle.Render(fmt.Sprintf("removed   %8d  %6.2f%%", c.Removed, c.Percent(c.Removed))),
		imgChangedStyle.Render(fmt.Sprintf("changed   %8d  %6.2f%%", c.Changed, c.Percent(c.Changed))),
		fmt.Sprintf("unchanged %8d  %6.2f%%", c.Unchanged, c.Percent(c.Unchanged)),
	)
	return rows
}
