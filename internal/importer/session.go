package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MyCarrier-DevOps/go-gitimport/internal/git"
)

// Session owns the transient remote used for one import run. The handle name
// combines the source identifier with a random suffix so concurrent sessions
// against different destinations never collide, and it is threaded through
// every operation rather than held in process-wide state.
//
// Close removes the remote and every tracking ref it created. It is
// idempotent and safe to re-invoke, so teardown can be both deferred and
// called explicitly on the success path.
type Session struct {
	repo   git.Repository
	handle string
	opened bool
	closed bool
}

// NewSession creates a session for the given source identifier. The remote is
// not registered until Open is called; in dry-run mode it never is.
func NewSession(repo git.Repository, sourceID string) *Session {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return &Session{
		repo:   repo,
		handle: fmt.Sprintf("import-%s-%s", sourceID, suffix),
	}
}

// Handle returns the transient remote name.
func (s *Session) Handle() string {
	return s.handle
}

// Open registers the transient remote pointing at the source URL.
func (s *Session) Open(url string) error {
	if err := s.repo.CreateRemote(s.handle, url); err != nil {
		return err
	}
	s.opened = true
	return nil
}

// Enumerate lists the source repository's branches and tags. The result is an
// immutable snapshot of the remote at list time; enumeration failure is fatal
// for the session.
func (s *Session) Enumerate(ctx context.Context) (git.RemoteState, error) {
	if !s.opened {
		return git.RemoteState{}, fmt.Errorf("session %s is not open", s.handle)
	}
	return s.repo.ListRemote(ctx, s.handle)
}

// Fetch transfers the named branches and tags into the session's tracking
// namespace under refs/remotes/{handle}/.
func (s *Session) Fetch(ctx context.Context, branches, tags []string) error {
	var refspecs []string
	for _, b := range branches {
		refspecs = append(refspecs, fmt.Sprintf("+refs/heads/%s:%s", b, s.BranchRef(b)))
	}
	for _, t := range tags {
		refspecs = append(refspecs, fmt.Sprintf("+refs/tags/%s:%s", t, s.TagRef(t)))
	}
	if len(refspecs) == 0 {
		return nil
	}
	return s.repo.Fetch(ctx, s.handle, refspecs)
}

// BranchRef returns the session tracking ref for a source branch.
func (s *Session) BranchRef(name string) string {
	return fmt.Sprintf("refs/remotes/%s/heads/%s", s.handle, name)
}

// TagRef returns the session tracking ref for a source tag.
func (s *Session) TagRef(name string) string {
	return fmt.Sprintf("refs/remotes/%s/tags/%s", s.handle, name)
}

// Close removes the transient remote and all of its tracking refs. Calling
// Close on a never-opened or already-closed session is a no-op.
func (s *Session) Close() error {
	if !s.opened || s.closed {
		return nil
	}

	var errs []error
	if err := s.repo.RemoveRemote(s.handle); err != nil {
		errs = append(errs, err)
	}

	prefix := fmt.Sprintf("refs/remotes/%s/", s.handle)
	refs, err := s.repo.ReferencesWithPrefix(prefix)
	if err != nil {
		errs = append(errs, err)
	}
	for _, ref := range refs {
		if err := s.repo.RemoveReference(ref); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("tearing down session %s: %w", s.handle, errors.Join(errs...))
	}
	s.closed = true
	return nil
}
