package layout

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// AnchorAssigner stamps every issue with a deterministic anchor id and a
// highlight box. It never reorders or deduplicates the list.
type AnchorAssigner struct{}

// NewAnchorAssigner creates an anchor assigner.
func NewAnchorAssigner() *AnchorAssigner {
	return &AnchorAssigner{}
}

// Assign populates the anchor of every issue in place and returns the slice.
// The id is a content hash over (issue_type, page_num, bbox), so identical
// runs over identical input produce identical ids.
func (a *AnchorAssigner) Assign(issues []Issue) []Issue {
	for i := range issues {
		issues[i].Anchor = &Anchor{
			ID:        AnchorID(issues[i].Type, issues[i].PageNum, issues[i].BBox),
			Highlight: issues[i].BBox,
		}
	}
	return issues
}

// AnchorID computes the content-hash identifier for one issue location.
func AnchorID(issueType IssueType, pageNum int, bbox BBox) string {
	key := fmt.Sprintf("%s-%d-%.2f,%.2f,%.2f,%.2f",
		issueType, pageNum, bbox.X0, bbox.Y0, bbox.X1, bbox.Y1)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
