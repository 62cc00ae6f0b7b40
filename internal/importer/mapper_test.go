package importer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "lib", false},
		{"with dots and dashes", "my-lib.v2", false},
		{"with underscore", "my_lib", false},
		{"numeric", "42", false},
		{"empty", "", true},
		{"slash", "my/lib", true},
		{"space", "my lib", true},
		{"tab", "my\tlib", true},
		{"colon", "a:b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.id)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestBranchName_UsesHyphenJoin(t *testing.T) {
	require.Equal(t, "lib-main", BranchName("lib", "main"))
	require.Equal(t, "lib-feature/x", BranchName("lib", "feature/x"))
}

func TestTagName_UsesSlashJoin(t *testing.T) {
	require.Equal(t, "lib/v1.0", TagName("lib", "v1.0"))
}

func TestMapping_IsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		require.Equal(t, "lib-develop", BranchName("lib", "develop"))
		require.Equal(t, "lib/v1.1", TagName("lib", "v1.1"))
	}
}

func TestDestinationBranchRef(t *testing.T) {
	ref, err := DestinationBranchRef("lib", "main")
	require.NoError(t, err)
	require.Equal(t, "refs/heads/lib-main", ref)
}

func TestDestinationTagRef(t *testing.T) {
	ref, err := DestinationTagRef("lib", "v1.0")
	require.NoError(t, err)
	require.Equal(t, "refs/tags/lib/v1.0", ref)
}

func TestDestinationRef_RejectsMalformedNames(t *testing.T) {
	tests := []struct {
		name       string
		remoteName string
	}{
		{"double dot", "a..b"},
		{"trailing lock", "feature.lock"},
		{"at brace", "a@{b"},
		{"space", "a b"},
		{"tilde", "a~1"},
		{"question mark", "wha?"},
		{"trailing dot", "branch."},
		{"dot component", "x/.hidden"},
		{"double slash", "a//b"},
		{"trailing slash", "a/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DestinationBranchRef("lib", tt.remoteName)
			require.Error(t, err)
		})
	}
}
