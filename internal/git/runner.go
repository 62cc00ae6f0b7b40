package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandError carries the structured result of a failed git invocation:
// the exact arguments plus captured stdout and stderr. Callers inspect the
// output instead of parsing assembled shell text.
type CommandError struct {
	Args   []string
	Stdout string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Runner executes git porcelain commands in a working directory. It covers
// the operations go-git does not provide in-process: merges with selectable
// strategies, checkout sequencing around them, and external history-rewrite
// tools.
type Runner struct {
	workDir string
	gitDir  string // optional explicit git directory for bare repositories
}

// NewRunner creates a Runner for the given working directory.
func NewRunner(workDir string) *Runner {
	return &Runner{workDir: workDir}
}

// NewBareRunner creates a Runner addressing a bare repository directly.
func NewBareRunner(gitDir string) *Runner {
	return &Runner{gitDir: gitDir}
}

// Run executes git with the given arguments and returns trimmed stdout.
func (r *Runner) Run(args ...string) (string, error) {
	if r.gitDir != "" {
		args = append([]string{"--git-dir=" + r.gitDir}, args...)
	}

	cmd := exec.Command("git", args...)
	if r.workDir != "" {
		cmd.Dir = r.workDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &CommandError{
			Args:   args,
			Stdout: stdout.String(),
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Checkout switches the working tree to the given branch.
func (r *Runner) Checkout(branch string) error {
	_, err := r.Run("checkout", "--quiet", branch)
	return err
}

// CurrentBranch returns the short name of the checked-out branch, or an empty
// string when HEAD is detached.
func (r *Runner) CurrentBranch() (string, error) {
	out, err := r.Run("symbolic-ref", "--quiet", "--short", "HEAD")
	if err != nil {
		var cmdErr *CommandError
		// Detached HEAD exits non-zero with no stderr; report it as no branch.
		if errors.As(err, &cmdErr) && strings.TrimSpace(cmdErr.Stderr) == "" {
			return "", nil
		}
		return "", err
	}
	return out, nil
}

// ConflictedFiles returns paths with unresolved merge conflicts.
func (r *Runner) ConflictedFiles() ([]string, error) {
	out, err := r.Run("diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
