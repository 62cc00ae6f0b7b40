package importer

import (
	"fmt"

	"github.com/MyCarrier-DevOps/go-gitimport/internal/git"
)

// materializeTags re-creates each enumerated tag under the destination
// namespace. Annotated and lightweight source tags are both peeled to their
// target commit and recreated as plain refs; which commit a tag targets is
// preserved exactly. When a subdirectory rewrite is active the tag is
// re-pointed at the rewritten counterpart of its commit, rewritten on demand
// through the shared cache for tags outside any branch graph. A tag that
// resolves to a non-commit object is surfaced as a failure and skipped; it
// never stops the batch.
func (imp *Importer) materializeTags(session *Session, tags []git.RemoteRef, report *Report) {
	policy := CollisionPolicy{Force: imp.opts.Force}

	for _, tag := range tags {
		destRef, err := DestinationTagRef(imp.opts.SourceID, tag.Name)
		if err != nil {
			report.Add(RefResult{Kind: git.KindTag, Source: tag.Name, Outcome: OutcomeFailed, Reason: err.Error()})
			continue
		}
		destName := TagName(imp.opts.SourceID, tag.Name)

		action, err := policy.Resolve(imp.repo, destRef)
		if err != nil {
			report.Add(RefResult{Kind: git.KindTag, Source: tag.Name, Destination: destName, Outcome: OutcomeFailed, Reason: err.Error()})
			continue
		}
		if action == ActionSkip {
			report.Add(RefResult{Kind: git.KindTag, Source: tag.Name, Destination: destName, Outcome: OutcomeSkipped, Reason: "ref already exists"})
			continue
		}

		sha, err := imp.repo.ReferenceSha(session.TagRef(tag.Name))
		if err != nil {
			report.Add(RefResult{Kind: git.KindTag, Source: tag.Name, Destination: destName, Outcome: OutcomeFailed, Reason: err.Error()})
			continue
		}

		commitSha, err := imp.repo.PeelToCommit(sha)
		if err != nil {
			reason := fmt.Sprintf("tag does not point to a commit: %v", err)
			report.Add(RefResult{Kind: git.KindTag, Source: tag.Name, Destination: destName, Outcome: OutcomeFailed, Reason: reason})
			continue
		}

		if imp.rewriteActive() {
			commitSha, err = imp.repo.RelocateCommit(commitSha, imp.opts.Subdirectory)
			if err != nil {
				report.Add(RefResult{Kind: git.KindTag, Source: tag.Name, Destination: destName, Outcome: OutcomeFailed, Reason: err.Error()})
				continue
			}
		}

		if err := imp.repo.SetReference(destRef, commitSha); err != nil {
			report.Add(RefResult{Kind: git.KindTag, Source: tag.Name, Destination: destName, Outcome: OutcomeFailed, Reason: err.Error()})
			continue
		}
		report.Add(RefResult{Kind: git.KindTag, Source: tag.Name, Destination: destName, Outcome: OutcomeCreated})
	}
}
