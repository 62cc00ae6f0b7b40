package git

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefKind_String(t *testing.T) {
	require.Equal(t, "branch", KindBranch.String())
	require.Equal(t, "tag", KindTag.String())
}

func TestCommit_IsMerge(t *testing.T) {
	require.False(t, Commit{Parents: nil}.IsMerge())
	require.False(t, Commit{Parents: []string{"a"}}.IsMerge())
	require.True(t, Commit{Parents: []string{"a", "b"}}.IsMerge())
}

func TestCommit_ShortSha(t *testing.T) {
	require.Equal(t, "1234567", Commit{Sha: "1234567890abcdef"}.ShortSha())
	require.Equal(t, "12345", Commit{Sha: "12345"}.ShortSha())
}

func TestCommit_IsEmpty(t *testing.T) {
	require.True(t, Commit{}.IsEmpty())
	require.False(t, Commit{Sha: "abc"}.IsEmpty())
}

func TestNewReferenceName(t *testing.T) {
	tests := []struct {
		canonical string
		friendly  string
	}{
		{"refs/heads/main", "main"},
		{"refs/heads/feature/x", "feature/x"},
		{"refs/tags/v1.0", "v1.0"},
		{"refs/remotes/origin/main", "origin/main"},
		{"HEAD", "HEAD"},
	}
	for _, tt := range tests {
		t.Run(tt.canonical, func(t *testing.T) {
			ref := NewReferenceName(tt.canonical)
			require.Equal(t, tt.canonical, ref.Canonical)
			require.Equal(t, tt.friendly, ref.Friendly)
		})
	}
}

func TestReferenceName_Kinds(t *testing.T) {
	require.True(t, NewBranchReferenceName("main").IsBranch())
	require.False(t, NewBranchReferenceName("main").IsTag())
	require.True(t, NewTagReferenceName("v1.0").IsTag())
	require.False(t, NewTagReferenceName("v1.0").IsBranch())
}

func TestRemoteState_BranchNames(t *testing.T) {
	state := RemoteState{
		Branches: []RemoteRef{
			{Kind: KindBranch, Name: "develop"},
			{Kind: KindBranch, Name: "main"},
		},
	}
	require.Equal(t, []string{"develop", "main"}, state.BranchNames())
}

func TestRemoteState_HasBranch(t *testing.T) {
	state := RemoteState{
		Branches: []RemoteRef{{Kind: KindBranch, Name: "main"}},
	}
	require.True(t, state.HasBranch("main"))
	require.False(t, state.HasBranch("ghost"))
}
