// Package gitimport provides a public Go API for importing another
// repository's full branch and tag history into a local repository.
//
// Basic usage:
//
//	result, err := gitimport.Import(context.Background(), gitimport.Options{
//	    RepoPath:  "/path/to/destination",
//	    SourceURL: "https://example.com/lib.git",
//	    SourceID:  "lib",
//	})
//	for _, ref := range result.Refs {
//	    fmt.Println(ref.Destination, ref.Outcome)
//	}
package gitimport

import (
	"context"

	"github.com/MyCarrier-DevOps/go-gitimport/internal/git"
	"github.com/MyCarrier-DevOps/go-gitimport/internal/importer"
)

// Options configures an import run.
type Options struct {
	// RepoPath is the destination repository. Defaults to "." if empty.
	RepoPath string

	// SourceURL is the source repository URL or path (required).
	SourceURL string

	// SourceID is the namespace prefix for all imported refs (required).
	// Imported branches are named {SourceID}-{branch}, tags {SourceID}/{tag}.
	SourceID string

	// Subdirectory relocates all imported files under this path, rewriting
	// the full history. Mutually exclusive with PreservePaths.
	Subdirectory string

	// PreservePaths keeps files at their source-repository paths.
	PreservePaths bool

	// Branch restricts the import to a single branch.
	Branch string

	// SkipTags disables tag import.
	SkipTags bool

	// Force overwrites existing destination refs instead of skipping them.
	Force bool

	// DryRun reports intended actions without contacting the remote.
	DryRun bool

	// ExternalRewrite selects the git filter-repo rewrite strategy instead
	// of the in-process tree filter.
	ExternalRewrite bool

	// MergeTo merges the imported default branch into this branch after the
	// import completes.
	MergeTo string

	// Strategy is the merge strategy: recursive (default), ours, or subtree.
	Strategy string

	// SquashMerge stages all changes under one prospective commit.
	SquashMerge bool

	// NoCommit stops before committing the merge.
	NoCommit bool

	// Graft records a graft linking the merge commit to the imported tip.
	Graft bool
}

// RefOutcome mirrors the importer outcome for one ref.
type RefOutcome struct {
	Kind        string // "branch" or "tag"
	Source      string
	Destination string
	Outcome     string // "created", "skipped", or "failed"
	Reason      string
}

// Result is the aggregate outcome of an import run.
type Result struct {
	SourceID      string
	DryRun        bool
	DefaultBranch string
	Refs          []RefOutcome
	Merged        bool
	MergeTarget   string
}

// Import runs a full import and returns the per-ref result. A non-nil Result
// may accompany an error when the run failed part-way.
func Import(ctx context.Context, opts Options) (*Result, error) {
	path := opts.RepoPath
	if path == "" {
		path = "."
	}

	repo, err := git.Open(path)
	if err != nil {
		return nil, err
	}

	imp := importer.New(repo, importer.Options{
		SourceURL:       opts.SourceURL,
		SourceID:        opts.SourceID,
		Subdirectory:    opts.Subdirectory,
		PreservePaths:   opts.PreservePaths,
		Branch:          opts.Branch,
		SkipTags:        opts.SkipTags,
		Force:           opts.Force,
		DryRun:          opts.DryRun,
		ExternalRewrite: opts.ExternalRewrite,
		MergeTo:         opts.MergeTo,
		Strategy:        opts.Strategy,
		SquashMerge:     opts.SquashMerge,
		NoCommit:        opts.NoCommit,
		Graft:           opts.Graft,
	})

	report, err := imp.Run(ctx)
	if report == nil {
		return nil, err
	}
	return convertReport(report), err
}

func convertReport(report *importer.Report) *Result {
	result := &Result{
		SourceID:      report.SourceID,
		DryRun:        report.DryRun,
		DefaultBranch: report.DefaultBranch,
		Merged:        report.Merged,
		MergeTarget:   report.MergeTarget,
	}
	for _, res := range report.Results {
		outcome := "failed"
		switch res.Outcome {
		case importer.OutcomeCreated:
			outcome = "created"
		case importer.OutcomeSkipped:
			outcome = "skipped"
		}
		result.Refs = append(result.Refs, RefOutcome{
			Kind:        res.Kind.String(),
			Source:      res.Source,
			Destination: res.Destination,
			Outcome:     outcome,
			Reason:      res.Reason,
		})
	}
	return result
}
