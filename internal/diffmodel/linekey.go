package diffmodel

// LineKey identifies one line of one hunk within a single DiffFile.
// It is positional rather than content-based, so a key is meaningless
// against any DiffFile other than the one it was derived from.
type LineKey struct {
	Hunk int
	Line int
}

// LineKeySet is the selection state for partial staging: the set of diff
// lines the user has picked. Owned by the view layer and discarded when
// the owning DiffFile is replaced.
type LineKeySet map[LineKey]struct{}

func NewLineKeySet(keys ...LineKey) LineKeySet {
	s := make(LineKeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s LineKeySet) Add(k LineKey)      { s[k] = struct{}{} }
func (s LineKeySet) Remove(k LineKey)   { delete(s, k) }
func (s LineKeySet) Has(k LineKey) bool { _, ok := s[k]; return ok }
func (s LineKeySet) Len() int           { return len(s) }

// Toggle flips membership and reports the new state.
func (s LineKeySet) Toggle(k LineKey) bool {
	if s.Has(k) {
		delete(s, k)
		return false
	}
	s[k] = struct{}{}
	return true
}

// Hunks returns the distinct hunk indices covered by the selection.
func (s LineKeySet) Hunks() map[int]bool {
	out := make(map[int]bool)
	for k := range s {
		out[k.Hunk] = true
	}
	return out
}
