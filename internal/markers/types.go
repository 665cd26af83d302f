package markers

// DefaultOursLabel and DefaultTheirsLabel substitute for blank marker
// labels so a resolution can always be reverted to labeled markers.
const (
	DefaultOursLabel   = "OURS"
	DefaultTheirsLabel = "THEIRS"
)

// Region is one conflict block located in raw file text. All line
// indices are 0-based absolute positions into the file's lines:
// StartLine/EndLine address the <<<<<<< and >>>>>>> marker lines
// themselves, the Ours*/Theirs* fields the half-open content spans
// between them. Regions are never persisted; they are recomputed after
// every write that can move lines.
type Region struct {
	Index     int
	StartLine int
	EndLine   int

	OursStart   int
	OursEnd     int
	TheirsStart int
	TheirsEnd   int

	OursContent   string // "\n"-joined, no trailing newline
	TheirsContent string

	OursLabel   string
	TheirsLabel string
}

// Segment is one piece of the merge output: either resolved text or a
// still-open conflict. Concatenating segments (with markers re-inserted
// for conflicts) reconstructs the full output text.
type Segment interface{ isSegment() }

// ResolvedSegment is a run of lines carrying no conflict markers.
type ResolvedSegment struct {
	Lines []string
}

func (ResolvedSegment) isSegment() {}

// ConflictSegment is one unresolved conflict with its original labels
// preserved verbatim so re-emission round-trips.
type ConflictSegment struct {
	OursLines   []string
	TheirsLines []string
	OursLabel   string
	TheirsLabel string
}

func (ConflictSegment) isSegment() {}
