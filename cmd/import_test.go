package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MyCarrier-DevOps/go-gitimport/internal/config"
	"github.com/MyCarrier-DevOps/go-gitimport/internal/importer"
)

func TestFindConfigFile_PrefersGithubDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".github"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".github", "gitimport.yml"), []byte("strategy: ours\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitimport.yml"), []byte("strategy: subtree\n"), 0o644))

	require.Equal(t, filepath.Join(dir, ".github", "gitimport.yml"), findConfigFile(dir))
}

func TestFindConfigFile_FallsBackToRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gitimport.yml"), []byte("strategy: ours\n"), 0o644))

	require.Equal(t, filepath.Join(dir, "gitimport.yml"), findConfigFile(dir))
}

func TestFindConfigFile_NoneFound(t *testing.T) {
	require.Empty(t, findConfigFile(t.TempDir()))
}

func TestApplyConfig_FillsUnsetOptions(t *testing.T) {
	subtree := "subtree"
	skip := true
	rewrite := true
	cfg := &config.Config{
		Strategy:         &subtree,
		SkipTags:         &skip,
		RewriteHistory:   &rewrite,
		FallbackBranches: []string{"trunk"},
	}

	opts := importer.Options{SourceURL: "/tmp/src", SourceID: "lib"}
	applyConfig(&opts, cfg, rootCmd)

	require.Equal(t, "subtree", opts.Strategy)
	require.True(t, opts.SkipTags)
	require.True(t, opts.ExternalRewrite)
	require.Equal(t, []string{"trunk"}, opts.FallbackBranches)
}

func TestApplyConfig_ExplicitStrategyWins(t *testing.T) {
	ours := "ours"
	cfg := &config.Config{Strategy: &ours}

	opts := importer.Options{SourceURL: "/tmp/src", SourceID: "lib", Strategy: "subtree"}
	applyConfig(&opts, cfg, rootCmd)

	require.Equal(t, "subtree", opts.Strategy)
}
