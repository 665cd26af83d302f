package cli

// Options is the fully-parsed configuration for a single invocation.
//
// Invocation forms:
//   - no args: interactive browser over all changed files
//   - a path argument: open that file's diff directly
//   - --resolve ours|theirs|both with a path: non-interactive conflict
//     resolution, no TUI
type Options struct {
	Path   string
	Staged bool

	Resolve string // ours|theirs|both, non-interactive
	Check   bool   // exit 0 if Path has no conflict markers

	ColorThreshold int // image diff color distance, 0..100

	Verbose bool
}
