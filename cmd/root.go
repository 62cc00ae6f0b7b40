package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Global flags shared across commands.
var (
	flagPath         string
	flagConfig       string
	flagOutput       string
	flagSubdirectory string
	flagBranch       string
	flagSkipTags     bool
	flagForce        bool
	flagDryRun       bool
	flagMergeTo      string
	flagPreserve     bool
	flagRewrite      bool
	flagGraft        bool
	flagSquashMerge  bool
	flagNoCommit     bool
	flagStrategy     string
)

// rootCmd is the top-level command for gitimport.
var rootCmd = &cobra.Command{
	Use:   "gitimport source-repo source-identifier",
	Short: "Import another repository's full branch and tag history",
	Long: `gitimport imports the complete branch/tag history of an external repository
into the current repository. Imported branches are named {id}-{branch} and
imported tags {id}/{tag}. Optionally all imported files are relocated under a
subdirectory (with full history rewrite), and the imported default branch can
be merged into an existing branch.`,
	Args: cobra.ExactArgs(2),
	RunE: importRunE,
}

func init() {
	rootCmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path to the destination git repository")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to config file (default: auto-detect .gitimport.yml)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output format: json, or empty for default")
	rootCmd.Flags().StringVarP(&flagSubdirectory, "subdirectory", "d", "", "relocate all imported files under this subdirectory")
	rootCmd.Flags().StringVarP(&flagBranch, "branch", "b", "", "import only this branch")
	rootCmd.Flags().BoolVar(&flagSkipTags, "skip-tags", false, "do not import tags")
	rootCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "overwrite existing refs instead of skipping them")
	rootCmd.Flags().BoolVarP(&flagDryRun, "dry-run", "n", false, "report intended actions without contacting the remote")
	rootCmd.Flags().StringVar(&flagMergeTo, "merge-to", "", "merge the imported default branch into this branch")
	rootCmd.Flags().BoolVar(&flagPreserve, "preserve-paths", false, "keep original file paths (mutually exclusive with --subdirectory)")
	rootCmd.Flags().BoolVar(&flagRewrite, "rewrite-history", false, "rewrite via external git filter-repo instead of the built-in tree filter")
	rootCmd.Flags().BoolVar(&flagGraft, "graft", false, "record a graft linking the merge commit to the imported branch tip")
	rootCmd.Flags().BoolVar(&flagSquashMerge, "squash-merge", false, "squash-merge instead of creating a merge commit")
	rootCmd.Flags().BoolVar(&flagNoCommit, "no-commit", false, "stop before committing the merge, leaving changes staged")
	rootCmd.Flags().StringVar(&flagStrategy, "strategy", "", "merge strategy: recursive, ours, or subtree")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
