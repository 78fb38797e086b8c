package audit

import (
	"fmt"
	"sort"

	"github.com/paperlint/mcp-paper-auditor/internal/layout"
)

// AuditLevel is the coarse verdict derived from the score.
type AuditLevel string

const (
	LevelPass     AuditLevel = "Pass"
	LevelWarning  AuditLevel = "Warning"
	LevelCritical AuditLevel = "Critical"
)

// Score point deductions per severity.
const (
	criticalPenalty = 10
	warningPenalty  = 5
	infoPenalty     = 1

	warningThreshold  = 80
	criticalThreshold = 60
)

// Score computes the 0-100 layout score from the issue list. Every critical
// issue costs 10 points, every warning 5 and every info 1.
func Score(issues []layout.Issue) int {
	score := 100
	for _, is := range issues {
		switch is.Severity {
		case layout.SeverityCritical:
			score -= criticalPenalty
		case layout.SeverityWarning:
			score -= warningPenalty
		case layout.SeverityInfo:
			score -= infoPenalty
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

// LevelForScore maps a score to its audit level.
func LevelForScore(score int) AuditLevel {
	switch {
	case score < criticalThreshold:
		return LevelCritical
	case score < warningThreshold:
		return LevelWarning
	default:
		return LevelPass
	}
}

// Comment produces a one-line human summary of the audit outcome.
func Comment(score int, issues []layout.Issue) string {
	if len(issues) == 0 {
		return "no layout issues found"
	}
	var warnings, infos, criticals int
	for _, is := range issues {
		switch is.Severity {
		case layout.SeverityCritical:
			criticals++
		case layout.SeverityWarning:
			warnings++
		case layout.SeverityInfo:
			infos++
		}
	}
	return fmt.Sprintf("score %d: %d critical, %d warning, %d info layout issues",
		score, criticals, warnings, infos)
}

// Tags returns the sorted distinct issue types present in the list.
func Tags(issues []layout.Issue) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, is := range issues {
		key := string(is.Type)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, key)
	}
	sort.Strings(tags)
	return tags
}
