package worddiff

import "github.com/gitscope/gitscope/internal/diffmodel"

// Cache memoizes Diff results per deletion line. It is owned by the view
// that owns the DiffFile and must be dropped when the file is reloaded;
// keys are positional and mean nothing against a different DiffFile.
type Cache struct {
	results map[diffmodel.LineKey]Result
}

func NewCache() *Cache {
	return &Cache{results: make(map[diffmodel.LineKey]Result)}
}

// Get returns the memoized diff for the deletion line at key, computing
// and storing it on first use.
func (c *Cache) Get(key diffmodel.LineKey, oldLine, newLine string) Result {
	if r, ok := c.results[key]; ok {
		return r
	}
	r := Diff(oldLine, newLine)
	c.results[key] = r
	return r
}

// Clear discards all memoized results. Call when the owning DiffFile is
// replaced.
func (c *Cache) Clear() {
	c.results = make(map[diffmodel.LineKey]Result)
}

func (c *Cache) Len() int { return len(c.results) }
