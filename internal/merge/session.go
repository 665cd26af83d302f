package merge

import (
	"fmt"

	"github.com/gitscope/gitscope/internal/markers"
)

// Session tracks the evolving text of one conflicted file through
// resolution operations, with bounded undo/redo. Regions are rescanned
// after every mutation; they are positional and go stale the moment the
// text changes.
type Session struct {
	text        string
	regions     []markers.Region
	undoStack   []string
	redoStack   []string
	maxUndoSize int
}

// NewSession starts a session over the file's current text.
// maxUndoSize must be >= 1.
func NewSession(text string, maxUndoSize int) (*Session, error) {
	if maxUndoSize < 1 {
		return nil, fmt.Errorf("maxUndoSize must be >= 1, got %d", maxUndoSize)
	}
	return &Session{
		text:        text,
		regions:     markers.ScanRegions(text),
		maxUndoSize: maxUndoSize,
	}, nil
}

// Text returns the current file text.
func (s *Session) Text() string { return s.text }

// Regions returns the conflict regions in the current text.
func (s *Session) Regions() []markers.Region { return s.regions }

// Resolved reports whether no conflict regions remain.
func (s *Session) Resolved() bool { return len(s.regions) == 0 }

// Resolve applies a choice to the regionIdx-th region of the current
// text.
func (s *Session) Resolve(regionIdx int, c Choice) error {
	if regionIdx < 0 || regionIdx >= len(s.regions) {
		return fmt.Errorf("%w: region %d of %d", ErrStaleRegion, regionIdx, len(s.regions))
	}
	lines, err := ResolveRegion(markers.SplitLines(s.text), s.regions[regionIdx], c)
	if err != nil {
		return err
	}
	s.commit(joinLike(s.text, lines))
	return nil
}

// ResolveAll applies one choice to every remaining region.
func (s *Session) ResolveAll(c Choice) (int, error) {
	text, n, err := ResolveAll(s.text, c)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.commit(text)
	}
	return n, nil
}

// Undo restores the text before the most recent mutation.
func (s *Session) Undo() error {
	if len(s.undoStack) == 0 {
		return fmt.Errorf("no undo history available")
	}
	s.pushWithLimit(&s.redoStack, s.text)
	s.text = s.undoStack[len(s.undoStack)-1]
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	s.regions = markers.ScanRegions(s.text)
	return nil
}

// Redo reapplies the most recently undone mutation.
func (s *Session) Redo() error {
	if len(s.redoStack) == 0 {
		return fmt.Errorf("no redo history available")
	}
	s.pushWithLimit(&s.undoStack, s.text)
	s.text = s.redoStack[len(s.redoStack)-1]
	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	s.regions = markers.ScanRegions(s.text)
	return nil
}

func (s *Session) UndoDepth() int { return len(s.undoStack) }
func (s *Session) RedoDepth() int { return len(s.redoStack) }

// commit records the current text for undo, clears redo history, and
// installs the new text.
func (s *Session) commit(text string) {
	s.pushWithLimit(&s.undoStack, s.text)
	s.redoStack = s.redoStack[:0]
	s.text = text
	s.regions = markers.ScanRegions(text)
}

func (s *Session) pushWithLimit(stack *[]string, text string) {
	*stack = append(*stack, text)
	if len(*stack) > s.maxUndoSize {
		*stack = (*stack)[1:]
	}
}
