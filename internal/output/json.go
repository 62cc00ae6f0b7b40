package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/MyCarrier-DevOps/go-gitimport/internal/importer"
)

// jsonRef is the JSON shape of one per-ref outcome.
type jsonRef struct {
	Kind        string `json:"kind"`
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	Outcome     string `json:"outcome"`
	Reason      string `json:"reason,omitempty"`
}

// jsonReport is the JSON shape of a full import report.
type jsonReport struct {
	SourceID      string    `json:"sourceId"`
	DryRun        bool      `json:"dryRun"`
	DefaultBranch string    `json:"defaultBranch,omitempty"`
	Refs          []jsonRef `json:"refs"`
	Merged        bool      `json:"merged"`
	MergeTarget   string    `json:"mergeTarget,omitempty"`
}

// WriteJSON writes the report as pretty-printed JSON to the writer.
func WriteJSON(w io.Writer, report *importer.Report) error {
	out := jsonReport{
		SourceID:      report.SourceID,
		DryRun:        report.DryRun,
		DefaultBranch: report.DefaultBranch,
		Refs:          make([]jsonRef, 0, len(report.Results)),
		Merged:        report.Merged,
		MergeTarget:   report.MergeTarget,
	}
	for _, res := range report.Results {
		out.Refs = append(out.Refs, jsonRef{
			Kind:        res.Kind.String(),
			Source:      res.Source,
			Destination: res.Destination,
			Outcome:     outcomeLabel(res.Outcome),
			Reason:      res.Reason,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report to JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON output: %w", err)
	}
	_, err = w.Write([]byte("\n"))
	return err
}

func outcomeLabel(o importer.Outcome) string {
	switch o {
	case importer.OutcomeCreated:
		return "created"
	case importer.OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}
