// Package testutil provides helpers for creating temporary git repositories
// for end-to-end testing.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gogitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// TestRepo is a builder for creating temporary git repositories with
// controlled commit history, tags, and branches for e2e testing.
type TestRepo struct {
	t    testing.TB
	path string
	repo *gogit.Repository
	time time.Time
}

// NewTestRepo creates and initializes a new git repository in a temporary directory.
func NewTestRepo(t testing.TB) *TestRepo {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}

	return &TestRepo{
		t:    t,
		path: dir,
		repo: repo,
		time: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Path returns the repository root directory.
func (r *TestRepo) Path() string {
	return r.path
}

// Repo returns the underlying go-git repository for direct assertions.
func (r *TestRepo) Repo() *gogit.Repository {
	r.reload()
	return r.repo
}

// reload reopens the repository. go-git caches the packfile index per
// handle, so packs written through another handle (e.g. by an import run)
// are invisible until the repository is reopened.
func (r *TestRepo) reload() {
	r.t.Helper()
	repo, err := gogit.PlainOpen(r.path)
	if err != nil {
		r.t.Fatalf("reopening repo: %v", err)
	}
	r.repo = repo
}

// AddCommit creates a new commit with the given message. A file named after
// the commit time is created to ensure each commit has changes.
// Returns the commit SHA.
func (r *TestRepo) AddCommit(message string) string {
	r.t.Helper()
	return r.AddFileCommit(fmt.Sprintf("file-%d.txt", r.time.Unix()+60), message, message)
}

// AddFileCommit writes the given file (creating parent directories), stages
// it, and commits with the given message. Returns the commit SHA.
func (r *TestRepo) AddFileCommit(name, content, message string) string {
	r.t.Helper()
	r.time = r.time.Add(time.Minute)

	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("getting worktree: %v", err)
	}

	path := filepath.Join(r.path, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("creating directories: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("writing file: %v", err)
	}

	if _, err := wt.Add(name); err != nil {
		r.t.Fatalf("staging file: %v", err)
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  r.time,
		},
	})
	if err != nil {
		r.t.Fatalf("committing: %v", err)
	}

	return hash.String()
}

// CreateTag creates a lightweight tag pointing at the given SHA.
func (r *TestRepo) CreateTag(name, sha string) {
	r.t.Helper()
	ref := plumbing.NewReferenceFromStrings("refs/tags/"+name, sha)
	if err := r.repo.Storer.SetReference(ref); err != nil {
		r.t.Fatalf("creating tag %s: %v", name, err)
	}
}

// CreateAnnotatedTag creates an annotated tag pointing at the given SHA.
func (r *TestRepo) CreateAnnotatedTag(name, sha, message string) {
	r.t.Helper()
	r.time = r.time.Add(time.Second)

	hash := plumbing.NewHash(sha)
	_, err := r.repo.CreateTag(name, hash, &gogit.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  r.time,
		},
		Message: message,
	})
	if err != nil {
		r.t.Fatalf("creating annotated tag %s: %v", name, err)
	}
}

// CreateBranch creates a new branch pointing at the given SHA.
func (r *TestRepo) CreateBranch(name, sha string) {
	r.t.Helper()

	ref := plumbing.NewReferenceFromStrings("refs/heads/"+name, sha)
	if err := r.repo.Storer.SetReference(ref); err != nil {
		r.t.Fatalf("creating branch %s: %v", name, err)
	}

	// Store branch config so go-git tracks it.
	cfg, err := r.repo.Config()
	if err != nil {
		r.t.Fatalf("reading config: %v", err)
	}
	cfg.Branches[name] = &gogitconfig.Branch{
		Name:   name,
		Remote: "",
		Merge:  plumbing.ReferenceName("refs/heads/" + name),
	}
	if err := r.repo.SetConfig(cfg); err != nil {
		r.t.Fatalf("saving config: %v", err)
	}
}

// Checkout switches HEAD to the given branch.
func (r *TestRepo) Checkout(branch string) {
	r.t.Helper()
	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("getting worktree: %v", err)
	}

	err = wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
	})
	if err != nil {
		r.t.Fatalf("checking out %s: %v", branch, err)
	}
}

// HeadSha returns the current HEAD commit SHA.
func (r *TestRepo) HeadSha() string {
	r.t.Helper()
	r.reload()
	head, err := r.repo.Head()
	if err != nil {
		r.t.Fatalf("getting HEAD: %v", err)
	}
	return head.Hash().String()
}

// RefSha returns the SHA a canonical reference points at, or fails the test.
func (r *TestRepo) RefSha(name string) string {
	r.t.Helper()
	r.reload()
	ref, err := r.repo.Reference(plumbing.ReferenceName(name), true)
	if err != nil {
		r.t.Fatalf("resolving %s: %v", name, err)
	}
	return ref.Hash().String()
}

// HasRef reports whether a canonical reference exists.
func (r *TestRepo) HasRef(name string) bool {
	r.t.Helper()
	r.reload()
	_, err := r.repo.Reference(plumbing.ReferenceName(name), false)
	return err == nil
}

// CommitCount returns the number of unique commits reachable from all refs.
func (r *TestRepo) CommitCount() int {
	r.t.Helper()
	r.reload()

	seen := make(map[plumbing.Hash]struct{})
	refs, err := r.repo.References()
	if err != nil {
		r.t.Fatalf("listing references: %v", err)
	}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		sha := ref.Hash()
		if tag, err := r.repo.TagObject(sha); err == nil {
			sha = tag.Target
		}
		commit, err := r.repo.CommitObject(sha)
		if err != nil {
			return nil // not a commit ref
		}
		stack := []*object.Commit{commit}
		for len(stack) > 0 {
			c := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, ok := seen[c.Hash]; ok {
				continue
			}
			seen[c.Hash] = struct{}{}
			for _, p := range c.ParentHashes {
				parent, err := r.repo.CommitObject(p)
				if err != nil {
					return err
				}
				stack = append(stack, parent)
			}
		}
		return nil
	})
	if err != nil {
		r.t.Fatalf("walking commits: %v", err)
	}
	return len(seen)
}

// TreeFiles returns a map of path -> content for every file in the tree of
// the given commit.
func (r *TestRepo) TreeFiles(sha string) map[string]string {
	r.t.Helper()
	r.reload()

	commit, err := r.repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		r.t.Fatalf("loading commit %s: %v", sha, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		r.t.Fatalf("loading tree of %s: %v", sha, err)
	}

	files := make(map[string]string)
	err = tree.Files().ForEach(func(f *object.File) error {
		content, err := f.Contents()
		if err != nil {
			return err
		}
		files[f.Name] = content
		return nil
	})
	if err != nil {
		r.t.Fatalf("walking tree files: %v", err)
	}
	return files
}
