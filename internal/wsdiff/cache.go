package wsdiff

import "github.com/gitscope/gitscope/internal/diffmodel"

// PairCache memoizes FindPairs per hunk index. Same lifetime rule as the
// word-diff cache: valid only for the DiffFile it was built against.
type PairCache struct {
	pairs map[int][]Pair
}

func NewPairCache() *PairCache {
	return &PairCache{pairs: make(map[int][]Pair)}
}

func (c *PairCache) Get(hunkIdx int, hunk *diffmodel.DiffHunk) []Pair {
	if p, ok := c.pairs[hunkIdx]; ok {
		return p
	}
	p := FindPairs(hunk)
	c.pairs[hunkIdx] = p
	return p
}

// PairedAddition reports whether the line at lineIdx is an addition that
// was absorbed into a whitespace-only pair, meaning renderers skip it.
func (c *PairCache) PairedAddition(hunkIdx int, hunk *diffmodel.DiffHunk, lineIdx int) bool {
	for _, p := range c.Get(hunkIdx, hunk) {
		if p.Addition == lineIdx {
			return true
		}
	}
	return false
}

func (c *PairCache) Clear() {
	c.pairs = make(map[int][]Pair)
}
