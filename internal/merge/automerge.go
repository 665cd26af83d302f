package merge

// AutoMergeResult is the output of the positional auto-merge: the merged
// lines (with conflict markers inline for unmergeable positions) and the
// number of conflict blocks emitted.
type AutoMergeResult struct {
	Lines     []string
	Conflicts int
}

// Clean reports whether the merge produced no conflict blocks.
func (r AutoMergeResult) Clean() bool { return r.Conflicts == 0 }

// AutoMerge performs a line-index-aligned three-way merge. It compares
// base, ours, and theirs position by position, treating missing indices
// as empty strings, and emits a marker block wherever both sides changed
// the same position differently.
//
// This is a naive positional heuristic, not diff3: any length-changing
// edit misaligns everything after it. It exists only as a fallback for
// when the backend's own conflict-marked merge text is unavailable.
func AutoMerge(base, ours, theirs []string) AutoMergeResult {
	n := len(base)
	if len(ours) > n {
		n = len(ours)
	}
	if len(theirs) > n {
		n = len(theirs)
	}

	at := func(s []string, i int) string {
		if i < len(s) {
			return s[i]
		}
		return ""
	}

	var res AutoMergeResult
	for i := 0; i < n; i++ {
		b, o, t := at(base, i), at(ours, i), at(theirs, i)
		switch {
		case o == t:
			res.Lines = append(res.Lines, o)
		case o == b:
			res.Lines = append(res.Lines, t)
		case t == b:
			res.Lines = append(res.Lines, o)
		default:
			res.Lines = append(res.Lines,
				"<<<<<<< OURS",
				o,
				"=======",
				t,
				">>>>>>> THEIRS",
			)
			res.Conflicts++
		}
	}
	return res
}
