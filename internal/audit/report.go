package audit

import "github.com/paperlint/mcp-paper-auditor/internal/layout"

// Highlight is the frontend-facing projection of one issue: everything a UI
// needs to draw the marker and its tooltip.
type Highlight struct {
	AnchorID  string           `json:"anchor_id"`
	PageNum   int              `json:"page_num"`
	BBox      layout.BBox      `json:"bbox"`
	Highlight layout.BBox      `json:"highlight"`
	Severity  layout.Severity  `json:"severity"`
	IssueType layout.IssueType `json:"issue_type"`
	Message   string           `json:"message"`
	Evidence  string           `json:"evidence,omitempty"`
}

// BuildHighlights projects anchored issues into highlight records,
// preserving order. Issues without an anchor are skipped; the anchor stage
// runs before this one in every pipeline.
func BuildHighlights(issues []layout.Issue) []Highlight {
	highlights := make([]Highlight, 0, len(issues))
	for _, is := range issues {
		if is.Anchor == nil {
			continue
		}
		highlights = append(highlights, Highlight{
			AnchorID:  is.Anchor.ID,
			PageNum:   is.PageNum,
			BBox:      is.BBox,
			Highlight: is.Anchor.Highlight,
			Severity:  is.Severity,
			IssueType: is.Type,
			Message:   is.Message,
			Evidence:  is.Evidence,
		})
	}
	return highlights
}
