// Package markers parses git conflict-marker text into structured
// conflict regions and output segments, and re-serializes them.
//
// Parsing is total over arbitrary input: a <<<<<<< without a matching
// ======= and >>>>>>> opens a region that is never closed, and the
// unclosed region is simply excluded from the results. Nested markers
// are not supported; the first >>>>>>> after an ======= always closes
// the current region.
package markers

import "strings"

const (
	markStart = "<<<<<<<"
	markBase  = "|||||||"
	markMid   = "======="
	markEnd   = ">>>>>>>"
)

// SplitLines splits raw file text on "\n" without dropping empty lines.
// A trailing newline does not produce a phantom final element.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" && strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// ScanRegions extracts every complete conflict region from text.
// diff3-style ||||||| base sections are tolerated: base lines belong to
// neither side and are skipped.
func ScanRegions(text string) []Region {
	return scanLines(SplitLines(text))
}

func scanLines(lines []string) []Region {
	var regions []Region
	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(lines[i], markStart) {
			continue
		}

		r := Region{
			Index:     len(regions),
			StartLine: i,
			OursLabel: labelAfter(lines[i], markStart),
			OursStart: i + 1,
		}

		j := i + 1
		for j < len(lines) && !strings.HasPrefix(lines[j], markMid) && !strings.HasPrefix(lines[j], markBase) {
			j++
		}
		r.OursEnd = j

		// Skip an optional base section.
		if j < len(lines) && strings.HasPrefix(lines[j], markBase) {
			for j < len(lines) && !strings.HasPrefix(lines[j], markMid) {
				j++
			}
		}
		if j >= len(lines) {
			// No separator: unterminated region, drop it.
			break
		}

		r.TheirsStart = j + 1
		k := j + 1
		for k < len(lines) && !strings.HasPrefix(lines[k], markEnd) {
			k++
		}
		if k >= len(lines) {
			// No closing marker: drop and stop, everything after the
			// separator already belongs to the broken region.
			break
		}
		r.TheirsEnd = k
		r.EndLine = k
		r.TheirsLabel = labelAfter(lines[k], markEnd)
		r.OursContent = strings.Join(lines[r.OursStart:r.OursEnd], "\n")
		r.TheirsContent = strings.Join(lines[r.TheirsStart:r.TheirsEnd], "\n")

		regions = append(regions, r)
		i = k
	}
	return regions
}

// labelAfter returns the trimmed text following a marker on its line.
func labelAfter(line, marker string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, marker))
}

// HasConflicts reports whether text contains at least one complete
// conflict region.
func HasConflicts(text string) bool {
	return len(ScanRegions(text)) > 0
}

// ParseSegments parses the same marker grammar into an ordered segment
// sequence for editable-output rendering. Blank marker labels default to
// OURS/THEIRS so a later re-emission is always labeled.
func ParseSegments(text string) []Segment {
	lines := SplitLines(text)
	regions := scanLines(lines)

	var segs []Segment
	pos := 0
	flush := func(end int) {
		if end > pos {
			segs = append(segs, ResolvedSegment{Lines: append([]string(nil), lines[pos:end]...)})
		}
	}

	for _, r := range regions {
		flush(r.StartLine)
		cs := ConflictSegment{
			OursLines:   append([]string(nil), lines[r.OursStart:r.OursEnd]...),
			TheirsLines: append([]string(nil), lines[r.TheirsStart:r.TheirsEnd]...),
			OursLabel:   r.OursLabel,
			TheirsLabel: r.TheirsLabel,
		}
		if cs.OursLabel == "" {
			cs.OursLabel = DefaultOursLabel
		}
		if cs.TheirsLabel == "" {
			cs.TheirsLabel = DefaultTheirsLabel
		}
		segs = append(segs, cs)
		pos = r.EndLine + 1
	}
	flush(len(lines))
	return segs
}
