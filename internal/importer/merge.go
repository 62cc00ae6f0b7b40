package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MyCarrier-DevOps/go-gitimport/internal/git"
)

// Merge strategies passed through verbatim to the underlying engine.
const (
	StrategyRecursive = "recursive"
	StrategyOurs      = "ours"
	StrategySubtree   = "subtree"
)

// ValidStrategy reports whether s is a supported merge strategy.
func ValidStrategy(s string) bool {
	return s == StrategyRecursive || s == StrategyOurs || s == StrategySubtree
}

// MergeRequest describes the single post-import merge. It is created only
// when an auto-merge target was requested and consumed exactly once, after
// all branch and tag processing completes.
type MergeRequest struct {
	Target       string // destination branch to merge into
	SourceBranch string // imported local branch name (already namespaced)
	Strategy     string
	Squash       bool
	NoCommit     bool
	Graft        bool

	// LeaveCheckedOut skips restoring the starting branch; used by
	// path-preservation mode which deliberately ends on an imported branch.
	LeaveCheckedOut bool
}

// MergeConflictError is returned when the merge stops on conflicts. The
// conflicted working tree is left intact for manual resolution.
type MergeConflictError struct {
	Target string
	Files  []string
	Err    error
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("merge into %s stopped on conflicts in %s: resolve the conflicted files, stage them, and run 'git commit' to complete the merge",
		e.Target, strings.Join(e.Files, ", "))
}

func (e *MergeConflictError) Unwrap() error {
	return e.Err
}

// resolveMergeSource picks the imported branch to merge: the mapped remote
// default branch when it exists locally, otherwise the first hit from the
// fallback candidates.
func resolveMergeSource(repo git.Repository, id, defaultBranch string, fallbacks []string) (string, error) {
	candidates := make([]string, 0, len(fallbacks)+1)
	if defaultBranch != "" {
		candidates = append(candidates, defaultBranch)
	}
	for _, f := range fallbacks {
		if f != defaultBranch {
			candidates = append(candidates, f)
		}
	}

	for _, c := range candidates {
		name := BranchName(id, c)
		exists, err := repo.HasReference("refs/heads/" + name)
		if err != nil {
			return "", err
		}
		if exists {
			return name, nil
		}
	}
	return "", fmt.Errorf("no imported default branch found to merge (tried %s)", strings.Join(candidates, ", "))
}

// mergeIntegrator drives the post-import merge through the porcelain runner.
type mergeIntegrator struct {
	repo   git.Repository
	runner *git.Runner
}

// Merge switches to the target branch, performs the requested merge, records
// a graft point when asked, and restores the starting branch on success.
func (m *mergeIntegrator) Merge(req MergeRequest) error {
	startBranch, err := m.runner.CurrentBranch()
	if err != nil {
		return fmt.Errorf("reading current branch: %w", err)
	}

	if err := m.runner.Checkout(req.Target); err != nil {
		return fmt.Errorf("switching to %s: %w", req.Target, err)
	}

	if err := m.execute(req); err != nil {
		// On conflict the working tree stays as-is for manual resolution;
		// do not switch back.
		return err
	}

	if req.Graft && !req.NoCommit {
		if err := m.recordGraft(req.SourceBranch); err != nil {
			return fmt.Errorf("recording graft point: %w", err)
		}
	}

	if !req.LeaveCheckedOut && !req.NoCommit && startBranch != "" && startBranch != req.Target {
		if err := m.runner.Checkout(startBranch); err != nil {
			return fmt.Errorf("returning to %s: %w", startBranch, err)
		}
	}
	return nil
}

func (m *mergeIntegrator) execute(req MergeRequest) error {
	message := fmt.Sprintf("Merge imported branch '%s' into %s", req.SourceBranch, req.Target)

	if req.Squash {
		// --squash implies --no-commit: changes are staged under one
		// prospective commit.
		if _, err := m.runner.Run(buildSquashArgs(req)...); err != nil {
			return m.classify(req, err)
		}
		if req.NoCommit {
			return nil
		}
		if _, err := m.runner.Run("commit", "-m", message); err != nil {
			return fmt.Errorf("committing squashed merge: %w", err)
		}
		return nil
	}

	if _, err := m.runner.Run(buildMergeArgs(req, message)...); err != nil {
		return m.classify(req, err)
	}
	return nil
}

// classify turns a failed merge invocation into a conflict error when
// unresolved paths exist, and passes other failures through.
func (m *mergeIntegrator) classify(req MergeRequest, err error) error {
	files, listErr := m.runner.ConflictedFiles()
	if listErr == nil && len(files) > 0 {
		return &MergeConflictError{Target: req.Target, Files: files, Err: err}
	}
	return fmt.Errorf("merging %s into %s: %w", req.SourceBranch, req.Target, err)
}

// buildSquashArgs assembles the squash-merge invocation. Unrelated histories
// are always permitted: source and destination share no common ancestor.
func buildSquashArgs(req MergeRequest) []string {
	return []string{
		"merge", "--squash",
		"-s", req.Strategy,
		"--allow-unrelated-histories",
		req.SourceBranch,
	}
}

// buildMergeArgs assembles the standard merge invocation.
func buildMergeArgs(req MergeRequest, message string) []string {
	args := []string{
		"merge",
		"-s", req.Strategy,
		"--allow-unrelated-histories",
		"-m", message,
	}
	if req.NoCommit {
		args = append(args, "--no-commit", "--no-ff")
	}
	return append(args, req.SourceBranch)
}

// recordGraft appends a graft record linking the merge commit to the imported
// branch tip. Grafts change local ancestry display only; no commit object is
// altered.
func (m *mergeIntegrator) recordGraft(sourceBranch string) error {
	mergeSha, err := m.repo.ReferenceSha("HEAD")
	if err != nil {
		return err
	}
	commit, err := m.repo.CommitFromSha(mergeSha)
	if err != nil {
		return err
	}
	tipSha, err := m.repo.ReferenceSha("refs/heads/" + sourceBranch)
	if err != nil {
		return err
	}

	parents := commit.Parents
	for _, p := range parents {
		if p == tipSha {
			return nil // already a real parent, nothing to graft
		}
	}

	infoDir := filepath.Join(m.repo.Path(), "info")
	if err := os.MkdirAll(infoDir, 0o755); err != nil {
		return err
	}

	line := mergeSha
	for _, p := range parents {
		line += " " + p
	}
	line += " " + tipSha + "\n"

	f, err := os.OpenFile(filepath.Join(infoDir, "grafts"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(line)
	return err
}
