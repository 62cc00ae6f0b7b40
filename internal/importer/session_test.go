package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MyCarrier-DevOps/go-gitimport/internal/git"
)

func TestNewSession_HandleIsNamespacedAndUnique(t *testing.T) {
	repo := &git.MockRepository{}
	a := NewSession(repo, "lib")
	b := NewSession(repo, "lib")

	require.True(t, strings.HasPrefix(a.Handle(), "import-lib-"))
	require.True(t, strings.HasPrefix(b.Handle(), "import-lib-"))
	require.NotEqual(t, a.Handle(), b.Handle())
}

func TestSession_EnumerateRequiresOpen(t *testing.T) {
	session := NewSession(&git.MockRepository{}, "lib")
	_, err := session.Enumerate(context.Background())
	require.ErrorContains(t, err, "not open")
}

func TestSession_FetchBuildsForcedRefspecs(t *testing.T) {
	var gotRemote string
	var gotSpecs []string
	repo := &git.MockRepository{
		FetchFunc: func(_ context.Context, remote string, refspecs []string) error {
			gotRemote = remote
			gotSpecs = refspecs
			return nil
		},
	}

	session := NewSession(repo, "lib")
	require.NoError(t, session.Open("/tmp/src"))
	require.NoError(t, session.Fetch(context.Background(), []string{"main"}, []string{"v1.0"}))

	require.Equal(t, session.Handle(), gotRemote)
	require.Equal(t, []string{
		fmt.Sprintf("+refs/heads/main:refs/remotes/%s/heads/main", session.Handle()),
		fmt.Sprintf("+refs/tags/v1.0:refs/remotes/%s/tags/v1.0", session.Handle()),
	}, gotSpecs)
}

func TestSession_FetchWithNothingToTransferIsNoop(t *testing.T) {
	fetched := false
	repo := &git.MockRepository{
		FetchFunc: func(context.Context, string, []string) error {
			fetched = true
			return nil
		},
	}

	session := NewSession(repo, "lib")
	require.NoError(t, session.Open("/tmp/src"))
	require.NoError(t, session.Fetch(context.Background(), nil, nil))
	require.False(t, fetched)
}

func TestSession_CloseRemovesRemoteAndTrackingRefs(t *testing.T) {
	var removedRemote string
	var removedRefs []string
	repo := &git.MockRepository{
		RemoveRemoteFunc: func(name string) error {
			removedRemote = name
			return nil
		},
		ReferencesWithPrefixFunc: func(prefix string) ([]string, error) {
			return []string{prefix + "heads/main", prefix + "tags/v1.0"}, nil
		},
		RemoveReferenceFunc: func(name string) error {
			removedRefs = append(removedRefs, name)
			return nil
		},
	}

	session := NewSession(repo, "lib")
	require.NoError(t, session.Open("/tmp/src"))
	require.NoError(t, session.Close())

	require.Equal(t, session.Handle(), removedRemote)
	require.Equal(t, []string{
		fmt.Sprintf("refs/remotes/%s/heads/main", session.Handle()),
		fmt.Sprintf("refs/remotes/%s/tags/v1.0", session.Handle()),
	}, removedRefs)
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	calls := 0
	repo := &git.MockRepository{
		RemoveRemoteFunc: func(string) error {
			calls++
			return nil
		},
	}

	session := NewSession(repo, "lib")
	require.NoError(t, session.Open("/tmp/src"))
	require.NoError(t, session.Close())
	require.NoError(t, session.Close())
	require.Equal(t, 1, calls)
}

func TestSession_CloseBeforeOpenIsNoop(t *testing.T) {
	calls := 0
	repo := &git.MockRepository{
		RemoveRemoteFunc: func(string) error {
			calls++
			return nil
		},
	}

	session := NewSession(repo, "lib")
	require.NoError(t, session.Close())
	require.Equal(t, 0, calls)
}

func TestSession_CloseJoinsTeardownErrors(t *testing.T) {
	repo := &git.MockRepository{
		RemoveRemoteFunc: func(string) error {
			return fmt.Errorf("remote locked")
		},
		ReferencesWithPrefixFunc: func(prefix string) ([]string, error) {
			return []string{prefix + "heads/main"}, nil
		},
		RemoveReferenceFunc: func(name string) error {
			return fmt.Errorf("ref %s locked", name)
		},
	}

	session := NewSession(repo, "lib")
	require.NoError(t, session.Open("/tmp/src"))

	err := session.Close()
	require.ErrorContains(t, err, "remote locked")
	require.ErrorContains(t, err, "heads/main locked")
}
