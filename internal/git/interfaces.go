package git

import "context"

// Repository provides low-level git operations for the import orchestrator.
// This is the key abstraction point for testing and backend swapping.
type Repository interface {
	// Path returns the path to the .git directory.
	Path() string

	// WorkingDirectory returns the path to the working directory.
	WorkingDirectory() string

	// Head returns the current HEAD branch.
	Head() (Branch, error)

	// HasReference reports whether a reference with the given canonical name
	// exists.
	HasReference(name string) (bool, error)

	// ReferenceSha returns the target SHA of the named reference.
	ReferenceSha(name string) (string, error)

	// SetReference creates or moves a reference to point at the given SHA.
	SetReference(name, sha string) error

	// RemoveReference deletes a reference. Removing a reference that does not
	// exist is not an error.
	RemoveReference(name string) error

	// ReferencesWithPrefix returns canonical names of all references under the
	// given prefix.
	ReferencesWithPrefix(prefix string) ([]string, error)

	// CreateRemote registers a remote with the given name and URL.
	CreateRemote(name, url string) error

	// RemoveRemote deletes a remote. Removing a remote that does not exist is
	// not an error.
	RemoveRemote(name string) error

	// ListRemote enumerates the references advertised by the named remote.
	// Dereferenced-tag markers are filtered out and the symbolic HEAD target
	// is reported as the default branch.
	ListRemote(ctx context.Context, name string) (RemoteState, error)

	// Fetch fetches the given refspecs from the named remote.
	Fetch(ctx context.Context, remote string, refspecs []string) error

	// CommitFromSha returns the commit with the given SHA.
	CommitFromSha(sha string) (Commit, error)

	// PeelToCommit resolves an object SHA to the commit it identifies, peeling
	// through annotated tags. Returns an error for trees, blobs, and other
	// non-commit objects.
	PeelToCommit(sha string) (string, error)

	// RelocateCommit rewrites the history reachable from the given commit so
	// that every tree is grafted under subdir, and returns the SHA of the
	// rewritten head commit. Authorship, committer identity, timestamps, and
	// messages are preserved exactly; commits whose tree matches their sole
	// parent's tree are pruned. Results are cached per subdir, so repeated
	// calls across branches and tags share one mapping.
	RelocateCommit(sha, subdir string) (string, error)
}
