package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// chartKind distinguishes figure captions from table captions. Placement
// conventions differ: figure captions sit below the chart, table captions
// above it.
type chartKind int

const (
	chartFigure chartKind = iota
	chartTable
)

// caption is a parsed figure/table caption element.
type caption struct {
	Kind    chartKind
	Number  int
	Element VisualElement
}

// numberedHeading is a heading with a parsed dotted numeric prefix.
type numberedHeading struct {
	Levels  []int
	Element VisualElement
}

// ConsistencyChecker runs the four structural checks over a document's
// classified elements. The checks share no state and may run in any order;
// the fixed sequence here keeps issue output deterministic.
type ConsistencyChecker struct {
	config Config
}

// NewConsistencyChecker creates a checker with default configuration.
func NewConsistencyChecker() *ConsistencyChecker {
	return NewConsistencyCheckerWithConfig(DefaultConfig())
}

// NewConsistencyCheckerWithConfig creates a checker with custom configuration.
func NewConsistencyCheckerWithConfig(config Config) *ConsistencyChecker {
	return &ConsistencyChecker{config: config}
}

// Check runs all checks over the full page-ordered element sequence and
// returns the collected issues.
func (c *ConsistencyChecker) Check(elements []VisualElement) []Issue {
	issues := make([]Issue, 0)
	issues = append(issues, c.checkCharts(elements)...)
	issues = append(issues, c.checkFormulas(elements)...)
	issues = append(issues, c.checkHeadingHierarchy(elements)...)
	issues = append(issues, c.checkCitations(elements)...)
	return issues
}

// checkCharts verifies that every in-body figure/table reference resolves to
// a caption, and that every caption sits on the conventional side of its
// nearest same-page chart.
func (c *ConsistencyChecker) checkCharts(elements []VisualElement) []Issue {
	captions := make([]caption, 0)
	captionNumbers := map[chartKind]map[int]struct{}{
		chartFigure: {},
		chartTable:  {},
	}
	images := make([]VisualElement, 0)

	for _, el := range elements {
		switch {
		case el.Type == ElementTypeTitle && el.Region == RegionChart:
			m := captionPattern.FindStringSubmatch(el.Content)
			if m == nil {
				continue
			}
			num, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			kind := captionKind(m[1])
			captions = append(captions, caption{Kind: kind, Number: num, Element: el})
			captionNumbers[kind][num] = struct{}{}
		case el.Type == ElementTypeImage:
			images = append(images, el)
		}
	}

	issues := make([]Issue, 0)

	// In-body references to charts that have no matching caption.
	for _, el := range elements {
		if el.Type != ElementTypeText || el.Region != RegionMain {
			continue
		}
		for _, m := range chartRefPattern.FindAllStringSubmatch(el.Content, -1) {
			issues = c.appendChartRefIssue(issues, el, m[0], captionKind(m[1]), m[2], captionNumbers)
		}
		for _, m := range chartRefPatternEN.FindAllStringSubmatch(el.Content, -1) {
			issues = c.appendChartRefIssue(issues, el, m[0], captionKind(m[1]), m[2], captionNumbers)
		}
	}

	// Caption placement relative to the nearest same-page chart.
	for _, capt := range captions {
		nearest, ok := nearestImage(capt.Element, images)
		if !ok {
			issues = append(issues, Issue{
				Type:     IssueLabelMissing,
				Severity: SeverityWarning,
				PageNum:  capt.Element.PageNum,
				BBox:     capt.Element.BBox,
				Evidence: capt.Element.Content,
				Message:  fmt.Sprintf("caption %q has no chart on page %d", capt.Element.Content, capt.Element.PageNum),
			})
			continue
		}
		switch capt.Kind {
		case chartFigure:
			// Figure captions belong below the chart.
			if capt.Element.BBox.Y0 < nearest.BBox.Y0 {
				issues = append(issues, Issue{
					Type:     IssueLabelMissing,
					Severity: SeverityWarning,
					PageNum:  capt.Element.PageNum,
					BBox:     capt.Element.BBox,
					Evidence: capt.Element.Content,
					Message:  fmt.Sprintf("figure caption %q appears above its chart", capt.Element.Content),
				})
			}
		case chartTable:
			// Table captions belong above the chart.
			if capt.Element.BBox.Y0 > nearest.BBox.Y0 {
				issues = append(issues, Issue{
					Type:     IssueLabelMissing,
					Severity: SeverityWarning,
					PageNum:  capt.Element.PageNum,
					BBox:     capt.Element.BBox,
					Evidence: capt.Element.Content,
					Message:  fmt.Sprintf("table caption %q appears below its chart", capt.Element.Content),
				})
			}
		}
	}

	return issues
}

// appendChartRefIssue flags an in-body chart reference whose number has no
// caption of the same kind anywhere in the document.
func (c *ConsistencyChecker) appendChartRefIssue(issues []Issue, el VisualElement, evidence string, kind chartKind, numText string, captionNumbers map[chartKind]map[int]struct{}) []Issue {
	num, err := strconv.Atoi(numText)
	if err != nil {
		return issues
	}
	if _, ok := captionNumbers[kind][num]; ok {
		return issues
	}
	return append(issues, Issue{
		Type:     IssueLabelMissing,
		Severity: SeverityWarning,
		PageNum:  el.PageNum,
		BBox:     el.BBox,
		Evidence: evidence,
		Message:  fmt.Sprintf("text references %q but no matching caption exists", evidence),
	})
}

// captionKind maps a caption/reference label word to its chart kind.
func captionKind(label string) chartKind {
	switch strings.ToLower(strings.TrimSuffix(label, ".")) {
	case "表", "table":
		return chartTable
	default:
		return chartFigure
	}
}

// nearestImage returns the same-page image with the smallest vertical
// distance to the caption.
func nearestImage(capt VisualElement, images []VisualElement) (VisualElement, bool) {
	var nearest VisualElement
	best := -1.0
	for _, img := range images {
		if img.PageNum != capt.PageNum {
			continue
		}
		d := img.BBox.Y0 - capt.BBox.Y0
		if d < 0 {
			d = -d
		}
		if best < 0 || d < best {
			best = d
			nearest = img
		}
	}
	return nearest, best >= 0
}

// checkFormulas verifies formula numbering, in-body references to those
// numbers, and right-edge alignment. The alignment sub-check is independent
// of the numbering sub-checks.
func (c *ConsistencyChecker) checkFormulas(elements []VisualElement) []Issue {
	formulas := make([]VisualElement, 0)
	for _, el := range elements {
		if el.Type == ElementTypeFormula {
			formulas = append(formulas, el)
		}
	}
	if len(formulas) == 0 {
		return nil
	}

	referenced := make(map[int]struct{})
	for _, el := range elements {
		if el.Type != ElementTypeText || el.Region != RegionMain {
			continue
		}
		for _, m := range formulaRefPattern.FindAllStringSubmatch(el.Content, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil {
				referenced[n] = struct{}{}
			}
		}
		for _, m := range formulaRefPatternEN.FindAllStringSubmatch(el.Content, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil {
				referenced[n] = struct{}{}
			}
		}
	}

	// Right edge baseline per page, taken across every element.
	maxRight := make(map[int]float64)
	for _, el := range elements {
		if el.BBox.X1 > maxRight[el.PageNum] {
			maxRight[el.PageNum] = el.BBox.X1
		}
	}

	issues := make([]Issue, 0)
	for _, f := range formulas {
		m := trailingNumberPattern.FindStringSubmatch(f.Content)
		if m == nil {
			issues = append(issues, Issue{
				Type:     IssueFormulaMissing,
				Severity: SeverityWarning,
				PageNum:  f.PageNum,
				BBox:     f.BBox,
				Evidence: f.Content,
				Message:  "formula has no trailing equation number",
			})
		} else if n, err := strconv.Atoi(m[1]); err == nil {
			if _, ok := referenced[n]; !ok {
				issues = append(issues, Issue{
					Type:     IssueFormulaRefMissing,
					Severity: SeverityInfo,
					PageNum:  f.PageNum,
					BBox:     f.BBox,
					Evidence: f.Content,
					Message:  fmt.Sprintf("formula (%d) is never referenced in the body text", n),
				})
			}
		}
		if edge := maxRight[f.PageNum]; edge > 0 && f.BBox.X1 < edge*c.config.RightAlignRatio {
			issues = append(issues, Issue{
				Type:     IssueFormulaMisaligned,
				Severity: SeverityWarning,
				PageNum:  f.PageNum,
				BBox:     f.BBox,
				Evidence: f.Content,
				Message:  "formula number is not aligned to the right margin",
			})
		}
	}
	return issues
}

// checkHeadingHierarchy walks numbered headings in document order and flags
// level skips and non-consecutive siblings. Unnumbered headings are ignored,
// and returning to a shallower level is always legal.
func (c *ConsistencyChecker) checkHeadingHierarchy(elements []VisualElement) []Issue {
	headings := make([]numberedHeading, 0)
	for _, el := range elements {
		if el.Type != ElementTypeTitle || el.Region != RegionTitle {
			continue
		}
		m := headingPrefixPattern.FindStringSubmatch(el.Content)
		if m == nil {
			continue
		}
		levels := parseHeadingLevels(m[1])
		if len(levels) == 0 {
			continue
		}
		headings = append(headings, numberedHeading{Levels: levels, Element: el})
	}

	issues := make([]Issue, 0)
	for i := 1; i < len(headings); i++ {
		prev, cur := headings[i-1], headings[i]
		switch {
		case len(cur.Levels) > len(prev.Levels)+1:
			issues = append(issues, Issue{
				Type:     IssueHierarchyFault,
				Severity: SeverityWarning,
				PageNum:  cur.Element.PageNum,
				BBox:     cur.Element.BBox,
				Evidence: cur.Element.Content,
				Message:  fmt.Sprintf("heading %q skips a level after %q", cur.Element.Content, prev.Element.Content),
			})
		case len(cur.Levels) == len(prev.Levels) &&
			sameParent(prev.Levels, cur.Levels) &&
			cur.Levels[len(cur.Levels)-1] > prev.Levels[len(prev.Levels)-1]+1:
			issues = append(issues, Issue{
				Type:     IssueHierarchyFault,
				Severity: SeverityWarning,
				PageNum:  cur.Element.PageNum,
				BBox:     cur.Element.BBox,
				Evidence: cur.Element.Content,
				Message:  fmt.Sprintf("heading %q is not consecutive after %q", cur.Element.Content, prev.Element.Content),
			})
		}
	}
	return issues
}

// parseHeadingLevels splits a dotted prefix like "2.1.3" into integers.
func parseHeadingLevels(prefix string) []int {
	parts := strings.Split(prefix, ".")
	levels := make([]int, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		levels = append(levels, n)
	}
	return levels
}

// sameParent reports whether two equal-depth heading prefixes share every
// level except the last.
func sameParent(a, b []int) bool {
	for i := 0; i < len(a)-1; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// checkCitations verifies that every inline citation number resolves to a
// numbered reference-list entry. Only the numeric cross-reference is
// checked, never the cited content.
func (c *ConsistencyChecker) checkCitations(elements []VisualElement) []Issue {
	refNumbers := make(map[int]struct{})
	for _, el := range elements {
		if el.Region != RegionReference {
			continue
		}
		m := refEntryPattern.FindStringSubmatch(el.Content)
		if m == nil {
			continue
		}
		numText := m[1]
		if numText == "" {
			numText = m[2]
		}
		if n, err := strconv.Atoi(numText); err == nil {
			refNumbers[n] = struct{}{}
		}
	}

	issues := make([]Issue, 0)
	for _, el := range elements {
		if el.Type != ElementTypeCitation {
			continue
		}
		m := citationNumberPattern.FindStringSubmatch(el.Content)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, ok := refNumbers[n]; !ok {
			issues = append(issues, Issue{
				Type:     IssueCitationFault,
				Severity: SeverityWarning,
				PageNum:  el.PageNum,
				BBox:     el.BBox,
				Evidence: el.Content,
				Message:  fmt.Sprintf("citation %s has no matching reference entry", el.Content),
			})
		}
	}
	return issues
}
