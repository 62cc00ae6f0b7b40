package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCmd_FlagsRegistered(t *testing.T) {
	flags := []string{
		"path", "config", "output", "subdirectory", "branch", "skip-tags",
		"force", "dry-run", "merge-to", "preserve-paths", "rewrite-history",
		"graft", "squash-merge", "no-commit", "strategy",
	}
	for _, name := range flags {
		require.NotNil(t, rootCmd.Flags().Lookup(name), "flag --%s not registered", name)
	}
}

func TestRootCmd_RequiresTwoArgs(t *testing.T) {
	require.Error(t, rootCmd.Args(rootCmd, []string{}))
	require.Error(t, rootCmd.Args(rootCmd, []string{"only-source"}))
	require.NoError(t, rootCmd.Args(rootCmd, []string{"source", "id"}))
	require.Error(t, rootCmd.Args(rootCmd, []string{"source", "id", "extra"}))
}

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	require.Equal(t, Version+"\n", buf.String())
}
