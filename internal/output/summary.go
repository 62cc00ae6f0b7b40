// Package output renders import results for the terminal: a per-ref text
// summary, a dry-run plan, and a JSON mode for scripting.
package output

import (
	"fmt"
	"io"

	"github.com/MyCarrier-DevOps/go-gitimport/internal/git"
	"github.com/MyCarrier-DevOps/go-gitimport/internal/importer"
)

// WriteSummary writes the final per-ref summary, distinguishing created,
// skipped, and failed refs.
func WriteSummary(w io.Writer, report *importer.Report) error {
	if err := writeKind(w, report, git.KindBranch, "Branches"); err != nil {
		return err
	}
	if err := writeKind(w, report, git.KindTag, "Tags"); err != nil {
		return err
	}

	if report.Merged {
		if _, err := fmt.Fprintf(w, "Merged imported history into %s\n", report.MergeTarget); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%d created, %d skipped, %d failed\n",
		count(report, importer.OutcomeCreated),
		count(report, importer.OutcomeSkipped),
		count(report, importer.OutcomeFailed))
	return err
}

func writeKind(w io.Writer, report *importer.Report, kind git.RefKind, heading string) error {
	results := byKind(report, kind)
	if len(results) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "%s:\n", heading); err != nil {
		return err
	}
	for _, res := range results {
		line := fmt.Sprintf("  %s -> %s: %s", res.Source, res.Destination, res.Outcome)
		if res.Destination == "" {
			line = fmt.Sprintf("  %s: %s", res.Source, res.Outcome)
		}
		if res.Outcome == importer.OutcomeFailed && res.Reason != "" {
			line += " (" + res.Reason + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WritePlan writes the dry-run plan. No connection exists in dry-run mode, so
// the branch/tag lists are placeholders computed at execution time.
func WritePlan(w io.Writer, opts importer.Options) error {
	fmt.Fprintf(w, "Dry run: no refs were created.\n")
	fmt.Fprintf(w, "Would import from %s as %q:\n", opts.SourceURL, opts.SourceID)
	if opts.Branch != "" {
		fmt.Fprintf(w, "  branch %s -> %s\n", opts.Branch, importer.BranchName(opts.SourceID, opts.Branch))
	} else {
		fmt.Fprintf(w, "  branches: (enumerated at execution time) -> %s-<branch>\n", opts.SourceID)
	}
	if !opts.SkipTags {
		fmt.Fprintf(w, "  tags: (enumerated at execution time) -> %s/<tag>\n", opts.SourceID)
	}
	if opts.Subdirectory != "" {
		fmt.Fprintf(w, "  files relocated under %s/ with full history rewrite\n", opts.Subdirectory)
	}
	if opts.MergeTo != "" {
		fmt.Fprintf(w, "  imported default branch merged into %s (strategy %s)\n", opts.MergeTo, opts.Strategy)
	}
	return nil
}

func byKind(report *importer.Report, kind git.RefKind) []importer.RefResult {
	var results []importer.RefResult
	for _, res := range report.Results {
		if res.Kind == kind {
			results = append(results, res)
		}
	}
	return results
}

func count(report *importer.Report, outcome importer.Outcome) int {
	n := 0
	for _, res := range report.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}
