package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	gogitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Compile-time check that GoGitRepository implements Repository.
var _ Repository = (*GoGitRepository)(nil)

// GoGitRepository implements Repository using go-git.
type GoGitRepository struct {
	repo    *gogit.Repository
	path    string
	workDir string
	filters map[string]*treeFilter // per-subdir rewrite caches
}

// Open opens a git repository at the given path.
func Open(path string) (*GoGitRepository, error) {
	r, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening git repository at %s: %w", path, err)
	}

	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	root := wt.Filesystem.Root()

	return &GoGitRepository{
		repo:    r,
		path:    filepath.Join(root, ".git"),
		workDir: root,
		filters: make(map[string]*treeFilter),
	}, nil
}

func (r *GoGitRepository) Path() string {
	return r.path
}

func (r *GoGitRepository) WorkingDirectory() string {
	return r.workDir
}

func (r *GoGitRepository) Head() (Branch, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return Branch{}, fmt.Errorf("getting HEAD: %w", err)
	}

	commit, err := r.commitFromHash(ref.Hash())
	if err != nil {
		return Branch{}, fmt.Errorf("getting HEAD commit: %w", err)
	}

	return Branch{
		Name:           NewReferenceName(string(ref.Name())),
		Tip:            &commit,
		IsDetachedHead: !ref.Name().IsBranch(),
	}, nil
}

func (r *GoGitRepository) HasReference(name string) (bool, error) {
	_, err := r.repo.Reference(plumbing.ReferenceName(name), false)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("resolving reference %s: %w", name, err)
	}
	return true, nil
}

func (r *GoGitRepository) ReferenceSha(name string) (string, error) {
	ref, err := r.repo.Reference(plumbing.ReferenceName(name), true)
	if err != nil {
		return "", fmt.Errorf("resolving reference %s: %w", name, err)
	}
	return ref.Hash().String(), nil
}

func (r *GoGitRepository) SetReference(name, sha string) error {
	ref := plumbing.NewReferenceFromStrings(name, sha)
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("setting reference %s: %w", name, err)
	}
	return nil
}

func (r *GoGitRepository) RemoveReference(name string) error {
	exists, err := r.HasReference(name)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if err := r.repo.Storer.RemoveReference(plumbing.ReferenceName(name)); err != nil {
		return fmt.Errorf("removing reference %s: %w", name, err)
	}
	return nil
}

func (r *GoGitRepository) ReferencesWithPrefix(prefix string) ([]string, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if strings.HasPrefix(string(ref.Name()), prefix) {
			names = append(names, string(ref.Name()))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating references: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

func (r *GoGitRepository) CreateRemote(name, url string) error {
	_, err := r.repo.CreateRemote(&gogitconfig.RemoteConfig{
		Name: name,
		URLs: []string{url},
	})
	if err != nil {
		return fmt.Errorf("creating remote %s: %w", name, err)
	}
	return nil
}

func (r *GoGitRepository) RemoveRemote(name string) error {
	err := r.repo.DeleteRemote(name)
	if err != nil && !errors.Is(err, gogit.ErrRemoteNotFound) {
		return fmt.Errorf("removing remote %s: %w", name, err)
	}
	return nil
}

func (r *GoGitRepository) ListRemote(ctx context.Context, name string) (RemoteState, error) {
	rem, err := r.repo.Remote(name)
	if err != nil {
		return RemoteState{}, fmt.Errorf("looking up remote %s: %w", name, err)
	}

	refs, err := rem.ListContext(ctx, &gogit.ListOptions{})
	if err != nil {
		// A source with no refs at all is a valid import: zero branches,
		// zero tags.
		if errors.Is(err, transport.ErrEmptyRemoteRepository) {
			return RemoteState{}, nil
		}
		return RemoteState{}, fmt.Errorf("listing refs on remote %s: %w", name, err)
	}

	var state RemoteState
	for _, ref := range refs {
		if ref.Type() == plumbing.SymbolicReference {
			if ref.Name() == plumbing.HEAD {
				state.DefaultBranch = NewReferenceName(string(ref.Target())).Friendly
			}
			continue
		}

		refName := string(ref.Name())
		switch {
		case ref.Name().IsBranch():
			state.Branches = append(state.Branches, RemoteRef{
				Kind: KindBranch,
				Name: strings.TrimPrefix(refName, localBranchPrefix),
				Sha:  ref.Hash().String(),
			})
		case ref.Name().IsTag():
			short := strings.TrimPrefix(refName, tagRefPrefix)
			// A peeled entry is an artifact of the advertisement, not a tag.
			if strings.HasSuffix(short, derefMarker) {
				continue
			}
			state.Tags = append(state.Tags, RemoteRef{
				Kind: KindTag,
				Name: short,
				Sha:  ref.Hash().String(),
			})
		}
	}

	sort.Slice(state.Branches, func(i, j int) bool { return state.Branches[i].Name < state.Branches[j].Name })
	sort.Slice(state.Tags, func(i, j int) bool { return state.Tags[i].Name < state.Tags[j].Name })

	return state, nil
}

func (r *GoGitRepository) Fetch(ctx context.Context, remote string, refspecs []string) error {
	specs := make([]gogitconfig.RefSpec, 0, len(refspecs))
	for _, s := range refspecs {
		specs = append(specs, gogitconfig.RefSpec(s))
	}

	err := r.repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: remote,
		RefSpecs:   specs,
		Tags:       gogit.NoTags,
		Force:      true,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("fetching from remote %s: %w", remote, err)
	}
	return nil
}

func (r *GoGitRepository) CommitFromSha(sha string) (Commit, error) {
	return r.commitFromHash(plumbing.NewHash(sha))
}

func (r *GoGitRepository) PeelToCommit(sha string) (string, error) {
	hash := plumbing.NewHash(sha)

	// Try as an annotated tag first, peeling through nested tags.
	for {
		tagObj, err := r.repo.TagObject(hash)
		if err != nil {
			break
		}
		hash = tagObj.Target
	}

	if _, err := r.repo.CommitObject(hash); err != nil {
		return "", fmt.Errorf("object %s does not resolve to a commit: %w", sha, err)
	}
	return hash.String(), nil
}

func (r *GoGitRepository) RelocateCommit(sha, subdir string) (string, error) {
	filter, ok := r.filters[subdir]
	if !ok {
		f, err := newTreeFilter(r.repo, subdir)
		if err != nil {
			return "", err
		}
		r.filters[subdir] = f
		filter = f
	}

	newHash, err := filter.rewrite(plumbing.NewHash(sha))
	if err != nil {
		return "", err
	}
	if newHash == plumbing.ZeroHash {
		return "", fmt.Errorf("history of %s is empty after relocation", sha)
	}
	return newHash.String(), nil
}

// commitFromHash loads a go-git commit and converts it to our Commit type.
func (r *GoGitRepository) commitFromHash(hash plumbing.Hash) (Commit, error) {
	c, err := r.repo.CommitObject(hash)
	if err != nil {
		return Commit{}, fmt.Errorf("loading commit %s: %w", hash.String(), err)
	}
	return convertCommit(c), nil
}

// convertCommit converts a go-git commit to our Commit type.
func convertCommit(c *object.Commit) Commit {
	parents := make([]string, 0, c.NumParents())
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	return Commit{
		Sha:     c.Hash.String(),
		Parents: parents,
		When:    c.Committer.When,
		Message: c.Message,
	}
}
