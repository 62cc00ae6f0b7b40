package git

import (
	"fmt"
	"path"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// treeFilter rewrites commit history in-process so that every tree is grafted
// under a target subdirectory. It walks the commit graph parents-first and
// re-encodes each commit with a relocated tree, preserving author, committer,
// timestamps, and message byte-for-byte. Only the tree changes.
//
// Rewrites are cached by original hash, so multiple branches sharing history
// produce one rewritten graph, and tags can be re-pointed through the same
// mapping.
type treeFilter struct {
	repo    *gogit.Repository
	parts   []string                        // subdir elements, outermost first
	commits map[plumbing.Hash]plumbing.Hash // old commit -> new; ZeroHash = pruned
	trees   map[plumbing.Hash]plumbing.Hash // old root tree -> relocated tree
}

func newTreeFilter(repo *gogit.Repository, subdir string) (*treeFilter, error) {
	parts, err := splitSubdir(subdir)
	if err != nil {
		return nil, err
	}
	return &treeFilter{
		repo:    repo,
		parts:   parts,
		commits: make(map[plumbing.Hash]plumbing.Hash),
		trees:   make(map[plumbing.Hash]plumbing.Hash),
	}, nil
}

// splitSubdir validates and splits a target subdirectory into path elements.
func splitSubdir(subdir string) ([]string, error) {
	cleaned := path.Clean(strings.Trim(subdir, "/"))
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return nil, fmt.Errorf("invalid target subdirectory %q", subdir)
	}
	parts := strings.Split(cleaned, "/")
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return nil, fmt.Errorf("invalid target subdirectory %q", subdir)
		}
	}
	return parts, nil
}

// rewrite rewrites the history reachable from tip and returns the new head
// hash. Returns ZeroHash if every commit was pruned (empty history).
func (f *treeFilter) rewrite(tip plumbing.Hash) (plumbing.Hash, error) {
	type frame struct {
		hash    plumbing.Hash
		visited bool
	}

	stack := []frame{{hash: tip}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if _, done := f.commits[top.hash]; done {
			stack = stack[:len(stack)-1]
			continue
		}

		commit, err := f.repo.CommitObject(top.hash)
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("loading commit %s: %w", top.hash, err)
		}

		if !top.visited {
			top.visited = true
			for _, parent := range commit.ParentHashes {
				if _, done := f.commits[parent]; !done {
					stack = append(stack, frame{hash: parent})
				}
			}
			continue
		}

		stack = stack[:len(stack)-1]
		rewritten, err := f.rewriteCommit(commit)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		f.commits[top.hash] = rewritten
	}

	return f.commits[tip], nil
}

// rewriteCommit produces the rewritten counterpart of one commit. All parents
// must already be rewritten.
func (f *treeFilter) rewriteCommit(commit *object.Commit) (plumbing.Hash, error) {
	// A commit whose tree matches its sole parent's tree carries no change and
	// is pruned: it maps to the rewritten parent.
	if len(commit.ParentHashes) == 1 {
		parent, err := f.repo.CommitObject(commit.ParentHashes[0])
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("loading parent of %s: %w", commit.Hash, err)
		}
		if parent.TreeHash == commit.TreeHash {
			return f.commits[parent.Hash], nil
		}
	}

	// A root commit with an empty tree has nothing to relocate.
	if len(commit.ParentHashes) == 0 {
		tree, err := f.repo.TreeObject(commit.TreeHash)
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("loading tree of %s: %w", commit.Hash, err)
		}
		if len(tree.Entries) == 0 {
			return plumbing.ZeroHash, nil
		}
	}

	var parents []plumbing.Hash
	for _, p := range commit.ParentHashes {
		mapped := f.commits[p]
		if mapped == plumbing.ZeroHash {
			continue
		}
		if !containsHash(parents, mapped) {
			parents = append(parents, mapped)
		}
	}

	treeHash, err := f.relocateTree(commit.TreeHash)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	rewritten := &object.Commit{
		Author:       commit.Author,
		Committer:    commit.Committer,
		Message:      commit.Message,
		TreeHash:     treeHash,
		ParentHashes: parents,
		Encoding:     commit.Encoding,
	}

	obj := f.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.CommitObject)
	if err := rewritten.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("encoding rewritten commit for %s: %w", commit.Hash, err)
	}
	hash, err := f.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("storing rewritten commit for %s: %w", commit.Hash, err)
	}
	return hash, nil
}

// relocateTree wraps the original root tree in one tree object per subdir
// element, innermost first. The original tree hash is reused unchanged as the
// leaf, so file content and relative structure are preserved exactly.
func (f *treeFilter) relocateTree(orig plumbing.Hash) (plumbing.Hash, error) {
	if cached, ok := f.trees[orig]; ok {
		return cached, nil
	}

	tree, err := f.repo.TreeObject(orig)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("loading tree %s: %w", orig, err)
	}
	if len(tree.Entries) == 0 {
		// Nothing to relocate; an empty tree stays empty.
		f.trees[orig] = orig
		return orig, nil
	}

	inner := orig
	for i := len(f.parts) - 1; i >= 0; i-- {
		wrapper := &object.Tree{Entries: []object.TreeEntry{{
			Name: f.parts[i],
			Mode: filemode.Dir,
			Hash: inner,
		}}}

		obj := f.repo.Storer.NewEncodedObject()
		obj.SetType(plumbing.TreeObject)
		if err := wrapper.Encode(obj); err != nil {
			return plumbing.ZeroHash, fmt.Errorf("encoding relocated tree: %w", err)
		}
		hash, err := f.repo.Storer.SetEncodedObject(obj)
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("storing relocated tree: %w", err)
		}
		inner = hash
	}

	f.trees[orig] = inner
	return inner, nil
}

func containsHash(hashes []plumbing.Hash, h plumbing.Hash) bool {
	for _, x := range hashes {
		if x == h {
			return true
		}
	}
	return false
}
