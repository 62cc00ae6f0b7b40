package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateDefaultConfiguration(t *testing.T) {
	cfg := CreateDefaultConfiguration()
	require.Equal(t, "recursive", cfg.EffectiveStrategy())
	require.False(t, cfg.EffectiveSkipTags())
	require.False(t, cfg.EffectiveRewriteHistory())
	require.Equal(t, []string{"main", "master", "trunk", "develop"}, cfg.FallbackBranches)
}

func TestEffective_UnsetFields(t *testing.T) {
	cfg := &Config{}
	require.Equal(t, "recursive", cfg.EffectiveStrategy())
	require.False(t, cfg.EffectiveSkipTags())
	require.False(t, cfg.EffectiveRewriteHistory())
}

func TestLoadFromBytes(t *testing.T) {
	data := []byte(`
strategy: subtree
skip-tags: true
rewrite-history: true
fallback-branches:
  - trunk
  - main
`)
	cfg, err := LoadFromBytes(data)
	require.NoError(t, err)
	require.Equal(t, "subtree", cfg.EffectiveStrategy())
	require.True(t, cfg.EffectiveSkipTags())
	require.True(t, cfg.EffectiveRewriteHistory())
	require.Equal(t, []string{"trunk", "main"}, cfg.FallbackBranches)
}

func TestLoadFromBytes_PartialFileLeavesRestUnset(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("skip-tags: true\n"))
	require.NoError(t, err)
	require.Nil(t, cfg.Strategy)
	require.True(t, cfg.EffectiveSkipTags())
}

func TestLoadFromBytes_InvalidYaml(t *testing.T) {
	_, err := LoadFromBytes([]byte("strategy: [unterminated"))
	require.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitimport.yml")
	require.NoError(t, os.WriteFile(path, []byte("strategy: ours\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, "ours", cfg.EffectiveStrategy())
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
}

func TestBuilder_LayersOverrides(t *testing.T) {
	ours := "ours"
	subtree := "subtree"
	skip := true

	cfg, err := NewBuilder().
		Add(&Config{Strategy: &ours}).
		Add(&Config{Strategy: &subtree, SkipTags: &skip}).
		Build()
	require.NoError(t, err)

	require.Equal(t, "subtree", cfg.EffectiveStrategy())
	require.True(t, cfg.EffectiveSkipTags())
	// Untouched fields keep their defaults.
	require.Equal(t, []string{"main", "master", "trunk", "develop"}, cfg.FallbackBranches)
}

func TestBuilder_NilOverrideIgnored(t *testing.T) {
	cfg, err := NewBuilder().Add(nil).Build()
	require.NoError(t, err)
	require.Equal(t, "recursive", cfg.EffectiveStrategy())
}

func TestBuilder_RejectsInvalidStrategy(t *testing.T) {
	bad := "octopus"
	_, err := NewBuilder().Add(&Config{Strategy: &bad}).Build()
	require.ErrorContains(t, err, "invalid strategy")
}
