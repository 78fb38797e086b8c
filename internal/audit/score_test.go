package audit

import (
	"reflect"
	"testing"

	"github.com/paperlint/mcp-paper-auditor/internal/layout"
)

func issue(severity layout.Severity, issueType layout.IssueType) layout.Issue {
	return layout.Issue{Type: issueType, Severity: severity, PageNum: 1}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		issues []layout.Issue
		want   int
	}{
		{"no issues", nil, 100},
		{"one warning", []layout.Issue{issue(layout.SeverityWarning, layout.IssueLabelMissing)}, 95},
		{"one info", []layout.Issue{issue(layout.SeverityInfo, layout.IssueFormulaRefMissing)}, 99},
		{"one critical", []layout.Issue{issue(layout.SeverityCritical, layout.IssueHierarchyFault)}, 90},
		{
			"mixed",
			[]layout.Issue{
				issue(layout.SeverityCritical, layout.IssueHierarchyFault),
				issue(layout.SeverityWarning, layout.IssueLabelMissing),
				issue(layout.SeverityInfo, layout.IssueFormulaRefMissing),
			},
			84,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.issues); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreFloorsAtZero(t *testing.T) {
	issues := make([]layout.Issue, 0, 30)
	for i := 0; i < 30; i++ {
		issues = append(issues, issue(layout.SeverityWarning, layout.IssueLabelMissing))
	}
	if got := Score(issues); got != 0 {
		t.Errorf("Score() = %d, want 0", got)
	}
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  AuditLevel
	}{
		{100, LevelPass},
		{80, LevelPass},
		{79, LevelWarning},
		{60, LevelWarning},
		{59, LevelCritical},
		{0, LevelCritical},
	}
	for _, tt := range tests {
		if got := LevelForScore(tt.score); got != tt.want {
			t.Errorf("LevelForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestTags(t *testing.T) {
	issues := []layout.Issue{
		issue(layout.SeverityWarning, layout.IssueLabelMissing),
		issue(layout.SeverityWarning, layout.IssueCitationFault),
		issue(layout.SeverityWarning, layout.IssueLabelMissing),
	}
	want := []string{"Citation_Visual_Fault", "Label_Missing"}
	if got := Tags(issues); !reflect.DeepEqual(got, want) {
		t.Errorf("Tags() = %v, want %v", got, want)
	}
}

func TestComment(t *testing.T) {
	if got := Comment(100, nil); got != "no layout issues found" {
		t.Errorf("Comment() = %q", got)
	}
	issues := []layout.Issue{issue(layout.SeverityWarning, layout.IssueLabelMissing)}
	if got := Comment(95, issues); got != "score 95: 0 critical, 1 warning, 0 info layout issues" {
		t.Errorf("Comment() = %q", got)
	}
}
