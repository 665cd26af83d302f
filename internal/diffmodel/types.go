// Package diffmodel holds the shared vocabulary of diffs: hunks, lines,
// files, and line selection keys. It contains data contracts only; the
// engines in sibling packages operate on these values and never mutate
// a DiffFile after it is loaded.
package diffmodel

import "fmt"

// Origin classifies a single diff line.
type Origin int

const (
	OriginContext Origin = iota
	OriginAddition
	OriginDeletion
)

// Prefix returns the unified-diff prefix character for this origin.
func (o Origin) Prefix() byte {
	switch o {
	case OriginAddition:
		return '+'
	case OriginDeletion:
		return '-'
	default:
		return ' '
	}
}

func (o Origin) String() string {
	switch o {
	case OriginContext:
		return "context"
	case OriginAddition:
		return "addition"
	case OriginDeletion:
		return "deletion"
	default:
		return "unknown"
	}
}

// FileStatus is the change status of a file in the working tree or index.
type FileStatus int

const (
	StatusModified FileStatus = iota
	StatusNew
	StatusDeleted
	StatusRenamed
	StatusConflicted
	StatusUntracked
)

func (s FileStatus) String() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusNew:
		return "new"
	case StatusDeleted:
		return "deleted"
	case StatusRenamed:
		return "renamed"
	case StatusConflicted:
		return "conflicted"
	case StatusUntracked:
		return "untracked"
	default:
		return "unknown"
	}
}

// NoNewlineMarker is the literal marker line unified diffs use to flag a
// missing trailing newline on the preceding line.
const NoNewlineMarker = `\ No newline at end of file`

// DiffLine is one line of a hunk. Line numbers are 1-based; 0 means the
// line does not exist on that side:
//   - context lines carry both numbers,
//   - additions carry only NewLineNo,
//   - deletions carry only OldLineNo.
type DiffLine struct {
	Content   string
	Origin    Origin
	OldLineNo int
	NewLineNo int

	// NoNewline marks the final line of a file that lacks a trailing
	// newline. The patch builder re-emits the marker line after it.
	NoNewline bool
}

// Valid reports whether the line-number invariant holds for this line.
func (l DiffLine) Valid() bool {
	switch l.Origin {
	case OriginContext:
		return l.OldLineNo > 0 && l.NewLineNo > 0
	case OriginAddition:
		return l.OldLineNo == 0 && l.NewLineNo > 0
	case OriginDeletion:
		return l.OldLineNo > 0 && l.NewLineNo == 0
	default:
		return false
	}
}

// NewContextLine builds a context line present on both sides.
func NewContextLine(content string, oldNo, newNo int) DiffLine {
	return DiffLine{Content: content, Origin: OriginContext, OldLineNo: oldNo, NewLineNo: newNo}
}

// NewAdditionLine builds an added line present only on the new side.
func NewAdditionLine(content string, newNo int) DiffLine {
	return DiffLine{Content: content, Origin: OriginAddition, NewLineNo: newNo}
}

// NewDeletionLine builds a deleted line present only on the old side.
func NewDeletionLine(content string, oldNo int) DiffLine {
	return DiffLine{Content: content, Origin: OriginDeletion, OldLineNo: oldNo}
}

// DiffHunk is a contiguous block of a diff under one @@ header.
type DiffHunk struct {
	Header   string // full "@@ -a,b +c,d @@ ..." line as received
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []DiffLine
}

// Validate checks the hunk count invariant: context+deletion lines must
// equal OldLines and context+addition lines must equal NewLines.
func (h *DiffHunk) Validate() error {
	oldCount, newCount := 0, 0
	for _, l := range h.Lines {
		switch l.Origin {
		case OriginContext:
			oldCount++
			newCount++
		case OriginDeletion:
			oldCount++
		case OriginAddition:
			newCount++
		}
	}
	if oldCount != h.OldLines {
		return fmt.Errorf("hunk %q: old side has %d lines, header says %d", h.Header, oldCount, h.OldLines)
	}
	if newCount != h.NewLines {
		return fmt.Errorf("hunk %q: new side has %d lines, header says %d", h.Header, newCount, h.NewLines)
	}
	return nil
}

// DiffFile is the diff of a single file, immutable once loaded and
// replaced wholesale on reload. Engine caches keyed by line identity are
// valid only for the DiffFile instance they were derived from.
type DiffFile struct {
	Path      string
	OldPath   string // set for renames, empty otherwise
	Status    FileStatus
	Hunks     []DiffHunk
	IsBinary  bool
	IsImage   bool
	Additions int
	Deletions int
}

// CountStats recomputes Additions and Deletions from the hunk lines.
func (f *DiffFile) CountStats() {
	f.Additions, f.Deletions = 0, 0
	for _, h := range f.Hunks {
		for _, l := range h.Lines {
			switch l.Origin {
			case OriginAddition:
				f.Additions++
			case OriginDeletion:
				f.Deletions++
			}
		}
	}
}

// Line resolves a LineKey against this file. ok is false when the key
// does not address an existing hunk/line (a stale selection).
func (f *DiffFile) Line(k LineKey) (DiffLine, bool) {
	if k.Hunk < 0 || k.Hunk >= len(f.Hunks) {
		return DiffLine{}, false
	}
	h := &f.Hunks[k.Hunk]
	if k.Line < 0 || k.Line >= len(h.Lines) {
		return DiffLine{}, false
	}
	return h.Lines[k.Line], true
}
