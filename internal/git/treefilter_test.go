package git

import (
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/MyCarrier-DevOps/go-gitimport/internal/testutil"
)

func TestSplitSubdir(t *testing.T) {
	tests := []struct {
		name    string
		subdir  string
		want    []string
		wantErr bool
	}{
		{"single element", "vendor", []string{"vendor"}, false},
		{"nested", "third_party/vendor-lib", []string{"third_party", "vendor-lib"}, false},
		{"leading and trailing slashes", "/a/b/", []string{"a", "b"}, false},
		{"empty", "", nil, true},
		{"dot", ".", nil, true},
		{"dotdot", "..", nil, true},
		{"escaping component", "a/../..", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitSubdir(tt.subdir)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTreeFilter_RelocatesAllFiles(t *testing.T) {
	src := testutil.NewTestRepo(t)
	src.AddFileCommit("README.md", "hello", "initial")
	tip := src.AddFileCommit("pkg/util.go", "package pkg", "add util")

	repo, err := Open(src.Path())
	require.NoError(t, err)

	newTip, err := repo.RelocateCommit(tip, "vendor/lib")
	require.NoError(t, err)
	require.NotEqual(t, tip, newTip)

	files := src.TreeFiles(newTip)
	require.Equal(t, map[string]string{
		"vendor/lib/README.md":   "hello",
		"vendor/lib/pkg/util.go": "package pkg",
	}, files)
}

func TestTreeFilter_PreservesIdentityAndTimestamps(t *testing.T) {
	src := testutil.NewTestRepo(t)
	src.AddFileCommit("a.txt", "a", "first")
	tip := src.AddFileCommit("b.txt", "b", "second")

	repo, err := Open(src.Path())
	require.NoError(t, err)

	newTip, err := repo.RelocateCommit(tip, "imported")
	require.NoError(t, err)

	orig, err := repo.repo.CommitObject(plumbing.NewHash(tip))
	require.NoError(t, err)
	rewritten, err := repo.repo.CommitObject(plumbing.NewHash(newTip))
	require.NoError(t, err)

	require.Equal(t, orig.Author, rewritten.Author)
	require.Equal(t, orig.Committer, rewritten.Committer)
	require.Equal(t, orig.Message, rewritten.Message)
	require.True(t, orig.Author.When.Equal(rewritten.Author.When))
	require.True(t, orig.Committer.When.Equal(rewritten.Committer.When))
}

func TestTreeFilter_PreservesCommitCount(t *testing.T) {
	src := testutil.NewTestRepo(t)
	src.AddFileCommit("a.txt", "1", "one")
	src.AddFileCommit("b.txt", "2", "two")
	tip := src.AddFileCommit("c.txt", "3", "three")

	repo, err := Open(src.Path())
	require.NoError(t, err)

	newTip, err := repo.RelocateCommit(tip, "vendor")
	require.NoError(t, err)

	count := 0
	hash := plumbing.NewHash(newTip)
	for hash != plumbing.ZeroHash {
		c, err := repo.repo.CommitObject(hash)
		require.NoError(t, err)
		count++
		if len(c.ParentHashes) == 0 {
			break
		}
		require.Len(t, c.ParentHashes, 1)
		hash = c.ParentHashes[0]
	}
	require.Equal(t, 3, count)
}

func TestTreeFilter_IsDeterministicAndCached(t *testing.T) {
	src := testutil.NewTestRepo(t)
	tip := src.AddFileCommit("a.txt", "a", "one")

	repo, err := Open(src.Path())
	require.NoError(t, err)

	first, err := repo.RelocateCommit(tip, "vendor")
	require.NoError(t, err)
	second, err := repo.RelocateCommit(tip, "vendor")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestTreeFilter_SharedHistoryRewrittenOnce(t *testing.T) {
	src := testutil.NewTestRepo(t)
	base := src.AddFileCommit("a.txt", "a", "base")
	src.CreateBranch("feature", base)
	src.Checkout("feature")
	featureTip := src.AddFileCommit("f.txt", "f", "feature work")

	repo, err := Open(src.Path())
	require.NoError(t, err)

	newBase, err := repo.RelocateCommit(base, "vendor")
	require.NoError(t, err)
	newFeatureTip, err := repo.RelocateCommit(featureTip, "vendor")
	require.NoError(t, err)

	c, err := repo.repo.CommitObject(plumbing.NewHash(newFeatureTip))
	require.NoError(t, err)
	require.Len(t, c.ParentHashes, 1)
	require.Equal(t, newBase, c.ParentHashes[0].String())
}

func TestTreeFilter_PrunesEmptyCommits(t *testing.T) {
	src := testutil.NewTestRepo(t)
	src.AddFileCommit("a.txt", "a", "real change")

	// An empty commit carries no tree delta relative to its parent and must
	// not survive the rewrite.
	wt, err := src.Repo().Worktree()
	require.NoError(t, err)
	tip, err := wt.Commit("empty marker", &gogit.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	repo, err := Open(src.Path())
	require.NoError(t, err)

	newTip, err := repo.RelocateCommit(tip.String(), "vendor")
	require.NoError(t, err)

	c, err := repo.repo.CommitObject(plumbing.NewHash(newTip))
	require.NoError(t, err)
	require.Equal(t, "real change", c.Message)
	require.Empty(t, c.ParentHashes)
}

func TestTreeFilter_MergeCommitKeepsBothParents(t *testing.T) {
	src := testutil.NewTestRepo(t)
	base := src.AddFileCommit("a.txt", "a", "base")
	src.CreateBranch("side", base)
	mainTip := src.AddFileCommit("m.txt", "m", "main work")
	src.Checkout("side")
	sideTip := src.AddFileCommit("s.txt", "s", "side work")

	// Hand-build the merge commit; go-git has no merge porcelain.
	mergeTree := buildMergedTree(t, src, mainTip, sideTip)
	merge := &object.Commit{
		Author:    object.Signature{Name: "Test", Email: "test@example.com", When: time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)},
		Committer: object.Signature{Name: "Test", Email: "test@example.com", When: time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)},
		Message:   "merge side",
		TreeHash:  mergeTree,
		ParentHashes: []plumbing.Hash{
			plumbing.NewHash(mainTip),
			plumbing.NewHash(sideTip),
		},
	}
	obj := src.Repo().Storer.NewEncodedObject()
	obj.SetType(plumbing.CommitObject)
	require.NoError(t, merge.Encode(obj))
	mergeHash, err := src.Repo().Storer.SetEncodedObject(obj)
	require.NoError(t, err)

	repo, err := Open(src.Path())
	require.NoError(t, err)

	newTip, err := repo.RelocateCommit(mergeHash.String(), "vendor")
	require.NoError(t, err)

	c, err := repo.repo.CommitObject(plumbing.NewHash(newTip))
	require.NoError(t, err)
	require.Len(t, c.ParentHashes, 2)
}

// buildMergedTree produces a tree combining the files of both parents.
func buildMergedTree(t *testing.T, src *testutil.TestRepo, a, b string) plumbing.Hash {
	t.Helper()

	entries := map[string]object.TreeEntry{}
	for _, sha := range []string{a, b} {
		commit, err := src.Repo().CommitObject(plumbing.NewHash(sha))
		require.NoError(t, err)
		tree, err := commit.Tree()
		require.NoError(t, err)
		for _, e := range tree.Entries {
			entries[e.Name] = e
		}
	}

	merged := &object.Tree{}
	for _, e := range entries {
		merged.Entries = append(merged.Entries, e)
	}
	sortTreeEntries(merged.Entries)

	obj := src.Repo().Storer.NewEncodedObject()
	obj.SetType(plumbing.TreeObject)
	require.NoError(t, merged.Encode(obj))
	hash, err := src.Repo().Storer.SetEncodedObject(obj)
	require.NoError(t, err)
	return hash
}

func sortTreeEntries(entries []object.TreeEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].Name < entries[j-1].Name; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}
