// Package worddiff computes an intraline token diff between the old and
// new version of a single changed line, for inline highlight rendering.
package worddiff

import (
	"unicode"
	"unicode/utf8"
)

// Segment is a run of characters sharing one highlight state.
type Segment struct {
	Text    string
	Changed bool
}

// Result holds the per-side segments. Concatenating Old reproduces the
// old line exactly; concatenating New reproduces the new line.
type Result struct {
	Old []Segment
	New []Segment
}

// Diff tokenizes both lines, marks tokens outside their longest common
// subsequence as changed, and merges adjacent tokens with equal state.
func Diff(oldLine, newLine string) Result {
	oldToks := tokenize(oldLine)
	newToks := tokenize(newLine)

	// Degenerate inputs skip the quadratic table: an empty side means
	// the whole other side changed.
	if len(oldToks) == 0 || len(newToks) == 0 {
		return Result{
			Old: wholeSide(oldLine),
			New: wholeSide(newLine),
		}
	}

	oldKeep, newKeep := lcsKeep(oldToks, newToks)
	return Result{
		Old: mergeSegments(oldToks, oldKeep),
		New: mergeSegments(newToks, newKeep),
	}
}

func wholeSide(line string) []Segment {
	if line == "" {
		return nil
	}
	return []Segment{{Text: line, Changed: true}}
}

// tokenize splits a line into runs of whitespace, runs of word
// characters, or single punctuation runes. Equivalent to matching the
// class (\s+|[^\s\w]|\w+) left to right.
func tokenize(s string) []string {
	var toks []string
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			j := i + size
			for j < len(s) {
				r2, s2 := utf8.DecodeRuneInString(s[j:])
				if !unicode.IsSpace(r2) {
					break
				}
				j += s2
			}
			toks = append(toks, s[i:j])
			i = j
		case isWordRune(r):
			j := i + size
			for j < len(s) {
				r2, s2 := utf8.DecodeRuneInString(s[j:])
				if !isWordRune(r2) {
					break
				}
				j += s2
			}
			toks = append(toks, s[i:j])
			i = j
		default:
			// Punctuation is atomic, one rune per token.
			toks = append(toks, s[i:i+size])
			i += size
		}
	}
	return toks
}

// isWordRune matches the regexp \w class: letters, digits, underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// lcsKeep computes which tokens of each side belong to the LCS via the
// standard dynamic-programming table and a backtrack pass.
func lcsKeep(a, b []string) (keepA, keepB []bool) {
	m, n := len(a), len(b)
	table := make([][]int, m+1)
	for i := range table {
		table[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				table[i][j] = table[i-1][j-1] + 1
			} else if table[i-1][j] >= table[i][j-1] {
				table[i][j] = table[i-1][j]
			} else {
				table[i][j] = table[i][j-1]
			}
		}
	}

	keepA = make([]bool, m)
	keepB = make([]bool, n)
	for i, j := m, n; i > 0 && j > 0; {
		switch {
		case a[i-1] == b[j-1]:
			keepA[i-1] = true
			keepB[j-1] = true
			i--
			j--
		case table[i-1][j] >= table[i][j-1]:
			i--
		default:
			j--
		}
	}
	return keepA, keepB
}

// mergeSegments folds consecutive tokens with the same changed flag into
// one segment.
func mergeSegments(toks []string, keep []bool) []Segment {
	var segs []Segment
	for i, tok := range toks {
		changed := !keep[i]
		if len(segs) > 0 && segs[len(segs)-1].Changed == changed {
			segs[len(segs)-1].Text += tok
			continue
		}
		segs = append(segs, Segment{Text: tok, Changed: changed})
	}
	return segs
}
