package markers

import "strings"

// RenderSegments re-serializes segments into file text. Conflict
// segments get literal markers re-inserted with their original labels,
// so ParseSegments→RenderSegments is the identity on marker-shaped
// input. The result carries a trailing newline when non-empty.
func RenderSegments(segs []Segment) string {
	var lines []string
	for _, seg := range segs {
		switch s := seg.(type) {
		case ResolvedSegment:
			lines = append(lines, s.Lines...)
		case ConflictSegment:
			lines = append(lines, markStart+" "+s.OursLabel)
			lines = append(lines, s.OursLines...)
			lines = append(lines, markMid)
			lines = append(lines, s.TheirsLines...)
			lines = append(lines, markEnd+" "+s.TheirsLabel)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// JoinLines assembles file lines back into text with a trailing newline.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
