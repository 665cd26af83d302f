package gitbackend

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gitscope/gitscope/internal/diffmodel"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".ico":  true,
}

// IsImagePath reports whether the path looks like a raster image the
// image diff engine can load.
func IsImagePath(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// ParseUnified parses git's single-file unified diff output into a
// DiffFile with per-line origins and line numbers. Empty input yields an
// empty DiffFile (file unchanged), not an error.
func ParseUnified(text string) (*diffmodel.DiffFile, error) {
	file := &diffmodel.DiffFile{Status: diffmodel.StatusModified}

	var cur *diffmodel.DiffHunk
	oldNo, newNo := 0, 0

	finishHunk := func() {
		if cur != nil {
			file.Hunks = append(file.Hunks, *cur)
			cur = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			finishHunk()
		case strings.HasPrefix(line, "new file mode"):
			file.Status = diffmodel.StatusNew
		case strings.HasPrefix(line, "deleted file mode"):
			file.Status = diffmodel.StatusDeleted
		case strings.HasPrefix(line, "rename from "):
			file.Status = diffmodel.StatusRenamed
			file.OldPath = strings.TrimPrefix(line, "rename from ")
		case strings.HasPrefix(line, "rename to "):
			file.Path = strings.TrimPrefix(line, "rename to ")
		case strings.HasPrefix(line, "Binary files "):
			file.IsBinary = true
		case cur == nil && strings.HasPrefix(line, "--- "):
			// File header; the +++ side is authoritative for Path.
		case cur == nil && strings.HasPrefix(line, "+++ "):
			if p := strings.TrimPrefix(line, "+++ "); p != "/dev/null" {
				file.Path = strings.TrimPrefix(p, "b/")
			}
		case strings.HasPrefix(line, "@@ "):
			finishHunk()
			h, err := parseHunkHeader(line)
			if err != nil {
				return nil, err
			}
			cur = h
			oldNo, newNo = h.OldStart, h.NewStart
		case cur != nil && strings.HasPrefix(line, diffmodel.NoNewlineMarker):
			if len(cur.Lines) > 0 {
				cur.Lines[len(cur.Lines)-1].NoNewline = true
			}
		case cur != nil && len(line) > 0 && line[0] == '+':
			cur.Lines = append(cur.Lines, diffmodel.NewAdditionLine(line[1:], newNo))
			newNo++
		case cur != nil && len(line) > 0 && line[0] == '-':
			cur.Lines = append(cur.Lines, diffmodel.NewDeletionLine(line[1:], oldNo))
			oldNo++
		case cur != nil && len(line) > 0 && line[0] == ' ':
			cur.Lines = append(cur.Lines, diffmodel.NewContextLine(line[1:], oldNo, newNo))
			oldNo++
			newNo++
		case cur != nil && line == "":
			// git emits a bare empty line for an empty context line in
			// some configurations; the final split artifact is also
			// empty. Only count it when the hunk still expects lines.
			oldCount, newCount := hunkProgress(cur)
			if oldCount < cur.OldLines || newCount < cur.NewLines {
				cur.Lines = append(cur.Lines, diffmodel.NewContextLine("", oldNo, newNo))
				oldNo++
				newNo++
			}
		}
	}
	finishHunk()

	file.IsImage = IsImagePath(file.Path)
	file.CountStats()
	return file, nil
}

func hunkProgress(h *diffmodel.DiffHunk) (oldCount, newCount int) {
	for _, l := range h.Lines {
		switch l.Origin {
		case diffmodel.OriginContext:
			oldCount++
			newCount++
		case diffmodel.OriginDeletion:
			oldCount++
		case diffmodel.OriginAddition:
			newCount++
		}
	}
	return oldCount, newCount
}

// parseHunkHeader parses "@@ -a,b +c,d @@ trailing" with the usual
// single-number shorthand for a count of 1.
func parseHunkHeader(line string) (*diffmodel.DiffHunk, error) {
	rest := strings.TrimPrefix(line, "@@ ")
	end := strings.Index(rest, " @@")
	if end < 0 {
		return nil, fmt.Errorf("malformed hunk header %q", line)
	}
	ranges := strings.Fields(rest[:end])
	if len(ranges) != 2 || !strings.HasPrefix(ranges[0], "-") || !strings.HasPrefix(ranges[1], "+") {
		return nil, fmt.Errorf("malformed hunk header %q", line)
	}

	oldStart, oldLines, err := parseRange(ranges[0][1:])
	if err != nil {
		return nil, fmt.Errorf("malformed hunk header %q: %w", line, err)
	}
	newStart, newLines, err := parseRange(ranges[1][1:])
	if err != nil {
		return nil, fmt.Errorf("malformed hunk header %q: %w", line, err)
	}

	return &diffmodel.DiffHunk{
		Header:   line,
		OldStart: oldStart,
		OldLines: oldLines,
		NewStart: newStart,
		NewLines: newLines,
	}, nil
}

func parseRange(s string) (start, count int, err error) {
	count = 1
	if i := strings.IndexByte(s, ','); i >= 0 {
		count, err = strconv.Atoi(s[i+1:])
		if err != nil {
			return 0, 0, err
		}
		s = s[:i]
	}
	start, err = strconv.Atoi(s)
	return start, count, err
}
