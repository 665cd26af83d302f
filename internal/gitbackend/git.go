package gitbackend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gitscope/gitscope/internal/diffmodel"
)

// Git implements Backend against a repository checkout by shelling out
// to the git CLI.
type Git struct {
	RepoRoot string
}

// Open locates the repository containing cwd.
func Open(ctx context.Context, cwd string) (*Git, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	cmd.Dir = cwd
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git rev-parse --show-toplevel failed: %w", err)
	}
	root := strings.TrimSpace(string(output))
	if root == "" {
		return nil, fmt.Errorf("git rev-parse returned empty repo root")
	}
	return &Git{RepoRoot: root}, nil
}

// git runs a git subcommand at the repo root and returns stdout.
// Failures carry git's stderr.
func (g *Git) git(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.RepoRoot
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("git %s: %s", args[0], msg)
	}
	return stdout.Bytes(), nil
}

func (g *Git) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(g.RepoRoot, filepath.FromSlash(path))
}

func (g *Git) ReadFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(g.abs(path))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func (g *Git) WriteFile(ctx context.Context, path, text string) error {
	if err := os.WriteFile(g.abs(path), []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ApplyPatch feeds the patch to git apply against the index.
// --unidiff-zero tolerates the zero-context hunks a selective patch can
// produce.
func (g *Git) ApplyPatch(ctx context.Context, patchText string, mode ApplyMode) error {
	if strings.TrimSpace(patchText) == "" {
		return errors.New("refusing to apply empty patch")
	}
	args := []string{"apply", "--cached", "--unidiff-zero", "--whitespace=nowarn"}
	if mode == ModeUnstage {
		args = append(args, "--reverse")
	}
	args = append(args, "-")
	if _, err := g.git(ctx, []byte(patchText), args...); err != nil {
		return err
	}
	return nil
}

func (g *Git) ResolveConflict(ctx context.Context, path, finalText string) error {
	if err := g.WriteFile(ctx, path, finalText); err != nil {
		return err
	}
	if _, err := g.git(ctx, nil, "add", "--", path); err != nil {
		return err
	}
	return nil
}

// ShowStage reads one side of a conflicted file from the index
// (1=base, 2=ours, 3=theirs).
func (g *Git) ShowStage(ctx context.Context, stage int, path string) (string, error) {
	out, err := g.git(ctx, nil, "show", fmt.Sprintf(":%d:%s", stage, path))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// MergedWithMarkers runs git's canonical three-way merge over the three
// stage files and returns the conflict-marked merge view. A positive
// exit code from git merge-file only counts conflicts, so it is not an
// error here.
func (g *Git) MergedWithMarkers(ctx context.Context, localPath, basePath, remotePath string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "merge-file", "-p", localPath, basePath, remotePath)
	cmd.Dir = g.RepoRoot
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) && ee.ExitCode() > 0 {
		return stdout.String(), nil
	}
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		msg = err.Error()
	}
	return "", fmt.Errorf("git merge-file failed: %s", msg)
}

func (g *Git) GetImageBytes(ctx context.Context, path string, rev RevisionSelector) (ImageBytes, error) {
	var ib ImageBytes
	ib.Format = strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	// Old side: last committed copy. Missing in HEAD means added file.
	if old, err := g.git(ctx, nil, "show", "HEAD:"+path); err == nil {
		ib.OldBytes = old
	}

	// New side per the selector.
	switch rev {
	case RevisionWorktree:
		if data, err := os.ReadFile(g.abs(path)); err == nil {
			ib.NewBytes = data
		}
	default:
		if data, err := g.git(ctx, nil, "show", string(rev)+":"+path); err == nil {
			ib.NewBytes = data
		}
	}

	if ib.OldBytes == nil && ib.NewBytes == nil {
		return ib, fmt.Errorf("no image content for %s at any revision", path)
	}
	return ib, nil
}

func (g *Git) LoadFileDiff(ctx context.Context, path string, staged bool) (*diffmodel.DiffFile, error) {
	status, err := g.fileStatus(ctx, path)
	if err != nil {
		return nil, err
	}
	if status == diffmodel.StatusUntracked {
		return g.untrackedDiff(ctx, path)
	}

	args := []string{"diff", "--no-color", "--no-ext-diff"}
	if staged {
		args = append(args, "--cached")
	}
	args = append(args, "--", path)
	out, err := g.git(ctx, nil, args...)
	if err != nil {
		return nil, err
	}

	file, err := ParseUnified(string(out))
	if err != nil {
		return nil, err
	}
	if file.Path == "" {
		file.Path = path
	}
	if status == diffmodel.StatusConflicted {
		file.Status = diffmodel.StatusConflicted
	}
	return file, nil
}

func (g *Git) ListChangedFiles(ctx context.Context) ([]ChangedFile, error) {
	out, err := g.git(ctx, nil, "status", "--porcelain", "--untracked-files=all")
	if err != nil {
		return nil, err
	}

	var files []ChangedFile
	for _, line := range strings.Split(string(out), "\n") {
		if len(line) < 4 {
			continue
		}
		x, y := line[0], line[1]
		path := strings.TrimSpace(line[3:])
		if i := strings.Index(path, " -> "); i >= 0 {
			path = path[i+4:]
		}
		files = append(files, ChangedFile{
			Path:   path,
			Status: porcelainStatus(x, y),
			Staged: x != ' ' && x != '?',
		})
	}
	return files, nil
}

func porcelainStatus(x, y byte) diffmodel.FileStatus {
	switch {
	case x == '?' || y == '?':
		return diffmodel.StatusUntracked
	case x == 'U' || y == 'U' || (x == 'A' && y == 'A') || (x == 'D' && y == 'D'):
		return diffmodel.StatusConflicted
	case x == 'R' || y == 'R':
		return diffmodel.StatusRenamed
	case x == 'A' || y == 'A':
		return diffmodel.StatusNew
	case x == 'D' || y == 'D':
		return diffmodel.StatusDeleted
	default:
		return diffmodel.StatusModified
	}
}

func (g *Git) fileStatus(ctx context.Context, path string) (diffmodel.FileStatus, error) {
	out, err := g.git(ctx, nil, "status", "--porcelain", "--untracked-files=all", "--", path)
	if err != nil {
		return diffmodel.StatusModified, err
	}
	line := strings.TrimRight(string(out), "\n")
	if len(line) < 2 {
		return diffmodel.StatusModified, nil
	}
	return porcelainStatus(line[0], line[1]), nil
}
