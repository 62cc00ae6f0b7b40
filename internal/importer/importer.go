package importer

import (
	"context"
	"fmt"

	"github.com/MyCarrier-DevOps/go-gitimport/internal/git"
)

// DefaultFallbackBranches are probed, in order, when the remote's default
// branch cannot be determined or its mapped ref was not created.
var DefaultFallbackBranches = []string{"main", "master", "trunk", "develop"}

// Options configures one import run.
type Options struct {
	SourceURL string // source repository URL or path
	SourceID  string // namespace prefix for all imported refs

	Subdirectory    string // relocate imported files under this path; empty = no rewrite
	PreservePaths   bool   // keep original paths; mutually exclusive with Subdirectory
	Branch          string // restrict the import to one branch
	SkipTags        bool
	Force           bool
	DryRun          bool
	ExternalRewrite bool // use git filter-repo instead of the in-process tree filter

	MergeTo          string // destination branch for the post-import merge; empty = no merge
	Strategy         string // recursive, ours, or subtree
	SquashMerge      bool
	NoCommit         bool
	Graft            bool
	FallbackBranches []string
}

// Validate checks everything that must hold before any remote contact.
func (o Options) Validate() error {
	if o.SourceURL == "" {
		return fmt.Errorf("source repository is required")
	}
	if err := ValidateIdentifier(o.SourceID); err != nil {
		return err
	}
	if o.PreservePaths && o.Subdirectory != "" {
		return fmt.Errorf("--preserve-paths and --subdirectory are mutually exclusive")
	}
	if o.Strategy != "" && !ValidStrategy(o.Strategy) {
		return fmt.Errorf("unknown merge strategy %q: want %s, %s, or %s",
			o.Strategy, StrategyRecursive, StrategyOurs, StrategySubtree)
	}
	return nil
}

// Importer runs the ref-import orchestration against one destination
// repository. Execution is strictly sequential: every branch is fully
// processed before the next, all branches before tags, and tags before the
// optional merge.
type Importer struct {
	repo   git.Repository
	runner *git.Runner
	opts   Options
}

// New creates an Importer for the given destination repository.
func New(repo git.Repository, opts Options) *Importer {
	if opts.Strategy == "" {
		opts.Strategy = StrategyRecursive
	}
	if len(opts.FallbackBranches) == 0 {
		opts.FallbackBranches = DefaultFallbackBranches
	}
	return &Importer{
		repo:   repo,
		runner: git.NewRunner(repo.WorkingDirectory()),
		opts:   opts,
	}
}

func (imp *Importer) rewriteActive() bool {
	return imp.opts.Subdirectory != "" && !imp.opts.PreservePaths
}

// Run executes the import and returns the per-ref report. On fatal errors the
// report accumulated so far is returned alongside the error. The transient
// remote is torn down on every exit path.
func (imp *Importer) Run(ctx context.Context) (*Report, error) {
	if err := imp.opts.Validate(); err != nil {
		return nil, err
	}

	report := &Report{SourceID: imp.opts.SourceID, DryRun: imp.opts.DryRun}

	if imp.opts.DryRun {
		// No connection exists in dry-run mode: the real branch/tag set is
		// computed at execution time.
		return report, nil
	}

	session := NewSession(imp.repo, imp.opts.SourceID)
	defer session.Close()

	if err := session.Open(imp.opts.SourceURL); err != nil {
		return report, err
	}

	state, err := session.Enumerate(ctx)
	if err != nil {
		return report, fmt.Errorf("enumerating refs on %s: %w", imp.opts.SourceURL, err)
	}
	report.DefaultBranch = state.DefaultBranch

	branches := state.Branches
	if imp.opts.Branch != "" {
		if !state.HasBranch(imp.opts.Branch) {
			return report, fmt.Errorf("branch %q does not exist on %s", imp.opts.Branch, imp.opts.SourceURL)
		}
		branches = []git.RemoteRef{{Kind: git.KindBranch, Name: imp.opts.Branch}}
	}

	tags := state.Tags
	if imp.opts.SkipTags {
		tags = nil
	}

	branchNames := make([]string, 0, len(branches))
	for _, b := range branches {
		branchNames = append(branchNames, b.Name)
	}
	tagNames := make([]string, 0, len(tags))
	for _, t := range tags {
		tagNames = append(tagNames, t.Name)
	}

	if err := session.Fetch(ctx, branchNames, tagNames); err != nil {
		return report, err
	}

	imp.importBranches(session, branches, report)

	// A skipped-as-exists branch is already materialized; only a branch that
	// neither exists nor got created is a failed request.
	if imp.opts.Branch != "" && report.CreatedBranches() == 0 && report.SkippedBranches() == 0 {
		return report, fmt.Errorf("branch %q could not be imported", imp.opts.Branch)
	}

	imp.materializeTags(session, tags, report)

	if imp.opts.MergeTo != "" {
		if err := imp.merge(state, report); err != nil {
			return report, err
		}
	}

	if imp.opts.PreservePaths {
		imp.checkoutImportedDefault(state)
	}

	if err := session.Close(); err != nil {
		return report, err
	}
	return report, nil
}

// importBranches processes each branch sequentially: collision resolution,
// then either a plain ref copy or a full history rewrite.
func (imp *Importer) importBranches(session *Session, branches []git.RemoteRef, report *Report) {
	policy := CollisionPolicy{Force: imp.opts.Force}

	var rewriter Rewriter
	if imp.rewriteActive() {
		rewriter = NewRewriter(imp.repo, imp.opts.Subdirectory, imp.opts.ExternalRewrite)
	}

	for _, branch := range branches {
		destRef, err := DestinationBranchRef(imp.opts.SourceID, branch.Name)
		if err != nil {
			report.Add(RefResult{Kind: git.KindBranch, Source: branch.Name, Outcome: OutcomeFailed, Reason: err.Error()})
			continue
		}
		destName := BranchName(imp.opts.SourceID, branch.Name)

		action, err := policy.Resolve(imp.repo, destRef)
		if err != nil {
			report.Add(RefResult{Kind: git.KindBranch, Source: branch.Name, Destination: destName, Outcome: OutcomeFailed, Reason: err.Error()})
			continue
		}
		if action == ActionSkip {
			report.Add(RefResult{Kind: git.KindBranch, Source: branch.Name, Destination: destName, Outcome: OutcomeSkipped, Reason: "ref already exists"})
			continue
		}

		sessionRef := session.BranchRef(branch.Name)
		if rewriter != nil {
			if _, err := rewriter.Rewrite(sessionRef, destRef, branch.Name); err != nil {
				report.Add(RefResult{Kind: git.KindBranch, Source: branch.Name, Destination: destName, Outcome: OutcomeFailed, Reason: err.Error()})
				continue
			}
		} else {
			sha, err := imp.repo.ReferenceSha(sessionRef)
			if err != nil {
				report.Add(RefResult{Kind: git.KindBranch, Source: branch.Name, Destination: destName, Outcome: OutcomeFailed, Reason: err.Error()})
				continue
			}
			if err := imp.repo.SetReference(destRef, sha); err != nil {
				report.Add(RefResult{Kind: git.KindBranch, Source: branch.Name, Destination: destName, Outcome: OutcomeFailed, Reason: err.Error()})
				continue
			}
		}

		report.Add(RefResult{Kind: git.KindBranch, Source: branch.Name, Destination: destName, Outcome: OutcomeCreated})
	}
}

// merge consumes the merge request exactly once, after all ref processing.
func (imp *Importer) merge(state git.RemoteState, report *Report) error {
	source, err := resolveMergeSource(imp.repo, imp.opts.SourceID, state.DefaultBranch, imp.opts.FallbackBranches)
	if err != nil {
		return err
	}

	integrator := &mergeIntegrator{repo: imp.repo, runner: imp.runner}
	req := MergeRequest{
		Target:          imp.opts.MergeTo,
		SourceBranch:    source,
		Strategy:        imp.opts.Strategy,
		Squash:          imp.opts.SquashMerge,
		NoCommit:        imp.opts.NoCommit,
		Graft:           imp.opts.Graft,
		LeaveCheckedOut: imp.opts.PreservePaths, // preserve-paths ends on an imported branch
	}
	if err := integrator.Merge(req); err != nil {
		return err
	}

	report.Merged = true
	report.MergeTarget = imp.opts.MergeTo
	return nil
}

// checkoutImportedDefault leaves the imported default branch checked out in
// path-preservation mode. Best effort: a failure here does not fail the run.
func (imp *Importer) checkoutImportedDefault(state git.RemoteState) {
	name, err := resolveMergeSource(imp.repo, imp.opts.SourceID, state.DefaultBranch, imp.opts.FallbackBranches)
	if err != nil {
		return
	}
	_ = imp.runner.Checkout(name)
}
