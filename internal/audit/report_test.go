package audit

import (
	"testing"

	"github.com/paperlint/mcp-paper-auditor/internal/layout"
)

func TestBuildHighlights(t *testing.T) {
	bbox := layout.BBox{X0: 50, Y0: 100, X1: 550, Y1: 114}
	issues := []layout.Issue{
		{
			Type:     layout.IssueLabelMissing,
			Severity: layout.SeverityWarning,
			PageNum:  2,
			BBox:     bbox,
			Evidence: "见图1",
			Message:  "no matching caption",
			Anchor:   &layout.Anchor{ID: "abc123", Highlight: bbox},
		},
		{
			// Un-anchored issues are skipped.
			Type:    layout.IssueHierarchyFault,
			PageNum: 3,
		},
	}

	highlights := BuildHighlights(issues)
	if len(highlights) != 1 {
		t.Fatalf("expected 1 highlight, got %d", len(highlights))
	}
	h := highlights[0]
	if h.AnchorID != "abc123" || h.PageNum != 2 || h.Highlight != bbox {
		t.Errorf("highlight = %+v", h)
	}
	if h.IssueType != layout.IssueLabelMissing || h.Severity != layout.SeverityWarning {
		t.Errorf("highlight type/severity = %s/%s", h.IssueType, h.Severity)
	}
	if h.Evidence != "见图1" {
		t.Errorf("evidence = %q", h.Evidence)
	}
}

func TestBuildHighlightsEmpty(t *testing.T) {
	if got := BuildHighlights(nil); len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}
