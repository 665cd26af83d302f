package gitbackend

import (
	"context"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/gitscope/gitscope/internal/diffmodel"
)

const contextLines = 3

// DiffBuffers computes a line-level diff between two in-memory texts and
// returns it as a DiffFile. This covers files git diff cannot serve,
// untracked files above all; the engines downstream only ever see the
// resulting hunks.
func DiffBuffers(path, oldText, newText string, status diffmodel.FileStatus) *diffmodel.DiffFile {
	file := &diffmodel.DiffFile{
		Path:    path,
		Status:  status,
		IsImage: IsImagePath(path),
	}

	lines := lineDiff(oldText, newText)
	file.Hunks = groupHunks(lines)
	file.CountStats()
	return file
}

// untrackedDiff synthesizes the "whole file added" diff for a file git
// does not track yet.
func (g *Git) untrackedDiff(ctx context.Context, path string) (*diffmodel.DiffFile, error) {
	text, err := g.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return DiffBuffers(path, "", text, diffmodel.StatusUntracked), nil
}

// lineDiff runs diffmatchpatch in line mode and flattens the result to
// numbered diff lines.
func lineDiff(oldText, newText string) []diffmodel.DiffLine {
	dmp := diffmatchpatch.New()
	oldChars, newChars, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lineArray)

	var out []diffmodel.DiffLine
	oldNo, newNo := 1, 1
	for _, d := range diffs {
		for _, content := range splitDiffLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				out = append(out, diffmodel.NewContextLine(content, oldNo, newNo))
				oldNo++
				newNo++
			case diffmatchpatch.DiffDelete:
				out = append(out, diffmodel.NewDeletionLine(content, oldNo))
				oldNo++
			case diffmatchpatch.DiffInsert:
				out = append(out, diffmodel.NewAdditionLine(content, newNo))
				newNo++
			}
		}
	}
	return out
}

func splitDiffLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// groupHunks folds the flat line list into hunks, keeping contextLines
// of context around each changed run and splitting where the unchanged
// gap exceeds twice that.
func groupHunks(lines []diffmodel.DiffLine) []diffmodel.DiffHunk {
	var hunks []diffmodel.DiffHunk
	var cur []diffmodel.DiffLine
	unchangedRun := 0

	flush := func() {
		// Trim the trailing context down to the margin.
		if len(cur) == 0 {
			return
		}
		trim := unchangedRun - contextLines
		if trim > 0 {
			cur = cur[:len(cur)-trim]
		}
		hunks = append(hunks, makeHunk(cur))
		cur = nil
	}

	for idx, l := range lines {
		if l.Origin == diffmodel.OriginContext {
			unchangedRun++
			if len(cur) > 0 {
				cur = append(cur, l)
				if unchangedRun > 2*contextLines {
					flush()
					unchangedRun = 0
				}
			}
			continue
		}

		if len(cur) == 0 {
			// Open a hunk with up to contextLines of leading context.
			start := idx - contextLines
			if start < 0 {
				start = 0
			}
			for _, c := range lines[start:idx] {
				if c.Origin == diffmodel.OriginContext {
					cur = append(cur, c)
				}
			}
		}
		cur = append(cur, l)
		unchangedRun = 0
	}
	flush()
	return hunks
}

func makeHunk(lines []diffmodel.DiffLine) diffmodel.DiffHunk {
	h := diffmodel.DiffHunk{Lines: append([]diffmodel.DiffLine(nil), lines...)}
	for _, l := range lines {
		switch l.Origin {
		case diffmodel.OriginContext:
			if h.OldStart == 0 {
				h.OldStart = l.OldLineNo
			}
			if h.NewStart == 0 {
				h.NewStart = l.NewLineNo
			}
			h.OldLines++
			h.NewLines++
		case diffmodel.OriginDeletion:
			if h.OldStart == 0 {
				h.OldStart = l.OldLineNo
			}
			h.OldLines++
		case diffmodel.OriginAddition:
			if h.NewStart == 0 {
				h.NewStart = l.NewLineNo
			}
			h.NewLines++
		}
	}
	// A start of 0 is git's convention for an empty side.
	h.Header = fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
	return h
}
