package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MyCarrier-DevOps/go-gitimport/internal/config"
	"github.com/MyCarrier-DevOps/go-gitimport/internal/git"
	"github.com/MyCarrier-DevOps/go-gitimport/internal/importer"
	"github.com/MyCarrier-DevOps/go-gitimport/internal/output"

	"github.com/spf13/cobra"
)

// configFileNames lists the files searched for configuration in order.
// Checks .github/ first, then repo root directory.
var configFileNames = []string{
	".github/gitimport.yml",
	".gitimport.yml",
	"gitimport.yml",
}

func importRunE(cmd *cobra.Command, args []string) error {
	// 1. Validate everything that must hold before any remote contact.
	opts := importer.Options{
		SourceURL:       args[0],
		SourceID:        args[1],
		Subdirectory:    flagSubdirectory,
		PreservePaths:   flagPreserve,
		Branch:          flagBranch,
		Force:           flagForce,
		DryRun:          flagDryRun,
		MergeTo:         flagMergeTo,
		SquashMerge:     flagSquashMerge,
		NoCommit:        flagNoCommit,
		Graft:           flagGraft,
		Strategy:        flagStrategy,
		SkipTags:        flagSkipTags,
		ExternalRewrite: flagRewrite,
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	// 2. Open the destination repository.
	repo, err := git.Open(flagPath)
	if err != nil {
		return fmt.Errorf("opening repository: %w", err)
	}

	// 3. Load configuration and fill in unset options.
	cfg, err := loadConfig(repo.WorkingDirectory())
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	applyConfig(&opts, cfg, cmd)

	// 4. Run the import.
	imp := importer.New(repo, opts)
	report, err := imp.Run(cmd.Context())

	// 5. Write the summary before surfacing any fatal error, so partial runs
	// still enumerate every created/skipped/failed ref.
	if report != nil {
		if werr := writeReport(report, opts); werr != nil && err == nil {
			err = werr
		}
	}
	if err != nil {
		return err
	}
	// Per-ref failures never stop the batch, but they do fail the exit code
	// so scripted callers notice a partial import.
	if report.Failed() {
		return fmt.Errorf("one or more refs failed to import")
	}
	return nil
}

// applyConfig fills options the user did not set explicitly from file config.
func applyConfig(opts *importer.Options, cfg *config.Config, cmd *cobra.Command) {
	if opts.Strategy == "" {
		opts.Strategy = cfg.EffectiveStrategy()
	}
	if !cmd.Flags().Changed("skip-tags") {
		opts.SkipTags = cfg.EffectiveSkipTags()
	}
	if !cmd.Flags().Changed("rewrite-history") {
		opts.ExternalRewrite = cfg.EffectiveRewriteHistory()
	}
	opts.FallbackBranches = cfg.FallbackBranches
}

// loadConfig loads configuration from a file or defaults.
func loadConfig(workDir string) (*config.Config, error) {
	builder := config.NewBuilder()

	configPath := flagConfig
	if configPath == "" {
		configPath = findConfigFile(workDir)
	}

	if configPath != "" {
		userCfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		builder.Add(userCfg)
	}

	return builder.Build()
}

// findConfigFile searches for a config file in the working directory.
func findConfigFile(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// writeReport writes the report in the requested format.
func writeReport(report *importer.Report, opts importer.Options) error {
	w := os.Stdout

	switch flagOutput {
	case "json":
		return output.WriteJSON(w, report)
	case "":
		if report.DryRun {
			return output.WritePlan(w, opts)
		}
		return output.WriteSummary(w, report)
	default:
		return fmt.Errorf("unknown output format %q", flagOutput)
	}
}
