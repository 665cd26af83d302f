// Package merge resolves three-way merge conflicts: a positional
// auto-merge fallback, per-region and whole-file resolution over raw
// conflict text, and segment-level resolution for editable output.
package merge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gitscope/gitscope/internal/markers"
)

// Choice selects which side(s) of a conflict survive resolution.
type Choice string

const (
	ChoiceOurs   Choice = "ours"
	ChoiceTheirs Choice = "theirs"
	ChoiceBoth   Choice = "both"
)

var ErrStaleRegion = errors.New("conflict region out of range")

func (c Choice) valid() bool {
	return c == ChoiceOurs || c == ChoiceTheirs || c == ChoiceBoth
}

// chosenLines returns the replacement lines for a region under a choice.
// Both keeps ours followed by theirs with no separator. The side spans
// index into lines, so empty sides contribute exactly zero lines.
func chosenLines(lines []string, r markers.Region, c Choice) []string {
	var out []string
	if c == ChoiceOurs || c == ChoiceBoth {
		out = append(out, lines[r.OursStart:r.OursEnd]...)
	}
	if c == ChoiceTheirs || c == ChoiceBoth {
		out = append(out, lines[r.TheirsStart:r.TheirsEnd]...)
	}
	return out
}

// ResolveRegion splices the region's absolute span out of lines and
// replaces it with the chosen content. The region must have been scanned
// from exactly these lines; a span that no longer fits means the file
// moved underneath the caller and resolution is refused.
func ResolveRegion(lines []string, r markers.Region, c Choice) ([]string, error) {
	if !c.valid() {
		return nil, fmt.Errorf("invalid choice %q", c)
	}
	if r.StartLine < 0 || r.EndLine >= len(lines) || r.StartLine > r.EndLine {
		return nil, fmt.Errorf("%w: [%d,%d] in %d lines", ErrStaleRegion, r.StartLine, r.EndLine, len(lines))
	}

	replacement := chosenLines(lines, r, c)
	out := make([]string, 0, len(lines)-(r.EndLine-r.StartLine+1)+len(replacement))
	out = append(out, lines[:r.StartLine]...)
	out = append(out, replacement...)
	out = append(out, lines[r.EndLine+1:]...)
	return out, nil
}

// ResolveAll resolves every conflict region in text with one choice and
// returns the new text plus the number of regions resolved. Regions are
// processed in descending StartLine order so earlier splices cannot
// shift the absolute spans of regions still pending.
func ResolveAll(text string, c Choice) (string, int, error) {
	if !c.valid() {
		return "", 0, fmt.Errorf("invalid choice %q", c)
	}
	regions := markers.ScanRegions(text)
	if len(regions) == 0 {
		return text, 0, nil
	}

	lines := markers.SplitLines(text)
	for i := len(regions) - 1; i >= 0; i-- {
		var err error
		lines, err = ResolveRegion(lines, regions[i], c)
		if err != nil {
			return "", 0, err
		}
	}
	return joinLike(text, lines), len(regions), nil
}

// joinLike reassembles lines, carrying over the source text's final
// newline convention: resolution replaces conflict regions and must not
// touch anything else about the file.
func joinLike(src string, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	out := strings.Join(lines, "\n")
	if strings.HasSuffix(src, "\n") {
		out += "\n"
	}
	return out
}

// ResolveSegment resolves the conflictIdx-th conflict segment (counting
// conflict segments only, in order) with the chosen side(s), leaving
// every other conflict segment untouched so RenderSegments re-emits its
// markers in place.
func ResolveSegment(segs []markers.Segment, conflictIdx int, c Choice) ([]markers.Segment, error) {
	if !c.valid() {
		return nil, fmt.Errorf("invalid choice %q", c)
	}

	out := make([]markers.Segment, len(segs))
	copy(out, segs)

	seen := 0
	for i, seg := range out {
		cs, ok := seg.(markers.ConflictSegment)
		if !ok {
			continue
		}
		if seen != conflictIdx {
			seen++
			continue
		}

		var lines []string
		if c == ChoiceOurs || c == ChoiceBoth {
			lines = append(lines, cs.OursLines...)
		}
		if c == ChoiceTheirs || c == ChoiceBoth {
			lines = append(lines, cs.TheirsLines...)
		}
		out[i] = markers.ResolvedSegment{Lines: lines}
		return out, nil
	}
	return nil, fmt.Errorf("%w: conflict %d, have %d", ErrStaleRegion, conflictIdx, seen)
}
