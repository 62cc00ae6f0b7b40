package importer

import "github.com/MyCarrier-DevOps/go-gitimport/internal/git"

// Outcome classifies what happened to one imported ref.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

// String returns the summary label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeSkipped:
		return "skipped (already exists)"
	default:
		return "failed"
	}
}

// RefResult is the recorded outcome for one source ref.
type RefResult struct {
	Kind        git.RefKind
	Source      string // remote short name
	Destination string // destination short name, when one was computed
	Outcome     Outcome
	Reason      string // populated for skips and failures
}

// Report aggregates per-ref outcomes and merge status for final reporting.
type Report struct {
	SourceID      string
	DryRun        bool
	DefaultBranch string
	Results       []RefResult
	Merged        bool
	MergeTarget   string
}

// Add records the outcome for one ref.
func (r *Report) Add(result RefResult) {
	r.Results = append(r.Results, result)
}

// Count returns the number of results with the given kind and outcome.
func (r *Report) Count(kind git.RefKind, outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Kind == kind && res.Outcome == outcome {
			n++
		}
	}
	return n
}

// CreatedBranches returns how many branches were created.
func (r *Report) CreatedBranches() int {
	return r.Count(git.KindBranch, OutcomeCreated)
}

// SkippedBranches returns how many branches were skipped as already existing.
func (r *Report) SkippedBranches() int {
	return r.Count(git.KindBranch, OutcomeSkipped)
}

// Failed reports whether any ref failed.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}
