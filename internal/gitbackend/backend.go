// Package gitbackend is the version-control collaborator the engines
// consume: it reads and writes file bytes, applies patch text to the
// index, marks conflicts resolved, and serves pre-computed diff data as
// diffmodel values. Everything goes through the git CLI; the engine
// packages never touch a filesystem or process themselves.
package gitbackend

import (
	"context"

	"github.com/gitscope/gitscope/internal/diffmodel"
)

// ApplyMode selects the direction of a patch application.
type ApplyMode int

const (
	// ModeStage applies the patch to the index.
	ModeStage ApplyMode = iota
	// ModeUnstage applies the patch to the index in reverse.
	ModeUnstage
)

// RevisionSelector names which version of a path to read bytes from.
type RevisionSelector string

const (
	// RevisionWorktree reads the file as it is on disk.
	RevisionWorktree RevisionSelector = ""
	// RevisionIndex reads the staged copy.
	RevisionIndex RevisionSelector = ":0"
	// RevisionHead reads the last committed copy.
	RevisionHead RevisionSelector = "HEAD"
)

// ImageBytes is both sides of an image diff. A nil side means the image
// does not exist in that revision (added or deleted file).
type ImageBytes struct {
	OldBytes []byte
	NewBytes []byte
	Format   string // lowercased extension without the dot
}

// ChangedFile is one entry of the repository's change list.
type ChangedFile struct {
	Path   string
	Status diffmodel.FileStatus
	Staged bool
}

// Backend is the narrow interface the engines and the shell consume.
type Backend interface {
	ReadFile(ctx context.Context, path string) (string, error)
	WriteFile(ctx context.Context, path string, text string) error

	// ApplyPatch submits unified-diff patch text to the index. The
	// caller must not submit empty patch text.
	ApplyPatch(ctx context.Context, patchText string, mode ApplyMode) error

	// ResolveConflict writes finalText to path and stages it.
	ResolveConflict(ctx context.Context, path, finalText string) error

	GetImageBytes(ctx context.Context, path string, rev RevisionSelector) (ImageBytes, error)

	// LoadFileDiff returns the pre-computed hunk data for one file.
	LoadFileDiff(ctx context.Context, path string, staged bool) (*diffmodel.DiffFile, error)

	ListChangedFiles(ctx context.Context) ([]ChangedFile, error)
}
