package importer

import (
	"fmt"
	"os"

	"github.com/MyCarrier-DevOps/go-gitimport/internal/git"
)

// Rewriter materializes a destination branch ref from a session tracking ref,
// relocating all paths under the target subdirectory. Two interchangeable
// strategies exist; both satisfy the same postcondition: for every file p in
// the source tree of a commit, the rewritten commit contains subdir/p with
// identical content and nothing outside subdir, with authorship, committer
// identity, and timestamps preserved exactly.
type Rewriter interface {
	Rewrite(sessionRef, destRef, branchName string) (string, error)
}

// NewRewriter selects the rewrite strategy. The external strategy shells out
// to git filter-repo in an isolated clone; the default strategy rewrites
// trees in-process.
func NewRewriter(repo git.Repository, subdir string, external bool) Rewriter {
	if external {
		return &externalRewriter{repo: repo, subdir: subdir}
	}
	return &treeFilterRewriter{repo: repo, subdir: subdir}
}

// treeFilterRewriter rewrites history in-process by walking the commit graph
// in topological order and grafting each tree under the subdirectory. No
// satellite clone is needed, and the rewrite cache is shared with tag
// re-pointing.
type treeFilterRewriter struct {
	repo   git.Repository
	subdir string
}

func (r *treeFilterRewriter) Rewrite(sessionRef, destRef, branchName string) (string, error) {
	tip, err := r.repo.ReferenceSha(sessionRef)
	if err != nil {
		return "", err
	}

	newTip, err := r.repo.RelocateCommit(tip, r.subdir)
	if err != nil {
		return "", fmt.Errorf("rewriting branch %s: %w", branchName, err)
	}

	if err := r.repo.SetReference(destRef, newTip); err != nil {
		return "", err
	}
	return newTip, nil
}

// externalRewriter invokes git filter-repo against an isolated bare clone,
// then fetches the rewritten branch back into the main repository and
// discards the clone.
type externalRewriter struct {
	repo   git.Repository
	subdir string
}

func (r *externalRewriter) Rewrite(sessionRef, destRef, branchName string) (string, error) {
	tmp, err := os.MkdirTemp("", "gitimport-rewrite-*")
	if err != nil {
		return "", fmt.Errorf("creating satellite clone directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	satellite := git.NewRunner(tmp)
	if _, err := satellite.Run("init", "--bare", "--quiet", "."); err != nil {
		return "", fmt.Errorf("initializing satellite clone: %w", err)
	}

	branchRef := "refs/heads/" + branchName
	if _, err := satellite.Run("fetch", "--quiet", r.repo.Path(), "+"+sessionRef+":"+branchRef); err != nil {
		return "", fmt.Errorf("populating satellite clone for %s: %w", branchName, err)
	}

	if _, err := satellite.Run(buildFilterRepoArgs(r.subdir, branchRef)...); err != nil {
		return "", fmt.Errorf("running filter-repo for %s: %w", branchName, err)
	}

	dest := git.NewBareRunner(r.repo.Path())
	if _, err := dest.Run("fetch", "--quiet", tmp, "+"+branchRef+":"+destRef); err != nil {
		return "", fmt.Errorf("fetching rewritten branch %s: %w", branchName, err)
	}

	return r.repo.ReferenceSha(destRef)
}

// buildFilterRepoArgs assembles the filter-repo invocation. Empty commits are
// always pruned so both rewrite strategies produce the same commit graph; the
// tree filter prunes any commit whose tree matches its sole parent's.
func buildFilterRepoArgs(subdir, branchRef string) []string {
	return []string{
		"filter-repo", "--force", "--quiet",
		"--to-subdirectory-filter", subdir,
		"--prune-empty", "always",
		"--refs", branchRef,
	}
}
