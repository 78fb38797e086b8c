package layout

import (
	"regexp"
	"strings"
)

// Patterns used by the classifier cascade and the consistency checks. The
// Chinese forms are primary; the English forms cover mixed-language papers.
var (
	// captionPattern matches a leading figure/table caption label, e.g.
	// "图1 系统架构" or "Table 2: Results". Group 1 is the label word,
	// group 2 the number.
	captionPattern = regexp.MustCompile(`^(图|表|Figure|Fig\.?|Table)\s*(\d+)`)

	// operatorPattern matches mathematical operator glyphs typical of
	// display formulas.
	operatorPattern = regexp.MustCompile(`[=∑∫√≈≠≤≥]`)

	// trailingNumberPattern matches a trailing parenthesized equation
	// number such as "(3)" or "（12）".
	trailingNumberPattern = regexp.MustCompile(`[（(](\d+)[）)]\s*$`)

	// citationPattern matches bracketed citation markers like "[3]" or
	// "[1, 4, 7]" anywhere in a line.
	citationPattern = regexp.MustCompile(`\[\d+(?:[,，]\s*\d+)*\]`)

	// numberedHeadingPattern matches dotted numeric heading prefixes
	// ("2.", "2.1 ", "3、").
	numberedHeadingPattern = regexp.MustCompile(`^\d+(?:\.\d+)*[.\s、]`)

	// chapterHeadingPattern matches Chinese chapter/section headings
	// ("第三章", "第十二节").
	chapterHeadingPattern = regexp.MustCompile(`^第[一二三四五六七八九十百]+[章节]`)

	// chartRefPattern matches in-body references to figures and tables,
	// e.g. "见图1" or "如表 3". Group 1 is the kind, group 2 the number.
	chartRefPattern = regexp.MustCompile(`(?:见|如)\s*(图|表)\s*(\d+)`)

	// chartRefPatternEN is the English counterpart ("see Figure 2").
	chartRefPatternEN = regexp.MustCompile(`(?i)see\s+(figure|fig\.?|table)\s*(\d+)`)

	// formulaRefPattern matches in-body references to numbered formulas,
	// e.g. "式(3)", "公式3" or "equation (2)".
	formulaRefPattern   = regexp.MustCompile(`(?:公式|式)\s*[（(]?(\d+)[）)]?`)
	formulaRefPatternEN = regexp.MustCompile(`(?i)(?:equation|eq\.)\s*\(?(\d+)\)?`)

	// refEntryPattern matches the leading number of a reference-list
	// entry, either "[12] ..." or "12. ...".
	refEntryPattern = regexp.MustCompile(`^\[(\d+)\]|^(\d+)\.`)

	// citationNumberPattern extracts the first number of a citation marker.
	citationNumberPattern = regexp.MustCompile(`\[(\d+)`)

	// headingPrefixPattern captures the dotted numeric prefix of a heading
	// for hierarchy checking.
	headingPrefixPattern = regexp.MustCompile(`^(\d+(?:\.\d+)*)`)
)

// referenceHeadings are the exact line texts that open a reference section.
var referenceHeadings = map[string]struct{}{
	"参考文献":       {},
	"参考文献：":      {},
	"References": {},
	"REFERENCES": {},
}

// isReferenceHeading reports whether a line is a reference-section heading.
func isReferenceHeading(text string) bool {
	_, ok := referenceHeadings[strings.TrimSpace(text)]
	return ok
}

// lineClass is the outcome of a single cascade rule for one line.
type lineClass struct {
	Type              ElementType
	Region            Region
	SetsReferenceMode bool
}

// ruleContext carries everything a cascade rule may inspect.
type ruleContext struct {
	Text          string
	FontSize      float64
	BodyFontSize  float64
	HeadingScale  float64
	ReferenceMode bool
}

// lineRule is one entry of the classification cascade. Rules are evaluated
// in order; the first matching terminal rule decides the line. A
// non-terminal rule contributes extra elements (citation markers) and lets
// the cascade continue.
type lineRule struct {
	Name     string
	Terminal bool
	Match    func(ruleContext) (lineClass, bool)
}

// classifierRules returns the ordered rule cascade. Order is significant
// and covered by tests; keep new rules in priority position rather than
// appending blindly.
func classifierRules() []lineRule {
	return []lineRule{
		{
			Name:     "reference_heading",
			Terminal: true,
			Match: func(rc ruleContext) (lineClass, bool) {
				if !isReferenceHeading(rc.Text) {
					return lineClass{}, false
				}
				return lineClass{
					Type:              ElementTypeTitle,
					Region:            RegionReference,
					SetsReferenceMode: true,
				}, true
			},
		},
		{
			Name:     "chart_caption",
			Terminal: true,
			Match: func(rc ruleContext) (lineClass, bool) {
				if !captionPattern.MatchString(rc.Text) {
					return lineClass{}, false
				}
				return lineClass{Type: ElementTypeTitle, Region: RegionChart}, true
			},
		},
		{
			Name:     "formula",
			Terminal: true,
			Match: func(rc ruleContext) (lineClass, bool) {
				if !operatorPattern.MatchString(rc.Text) && !trailingNumberPattern.MatchString(rc.Text) {
					return lineClass{}, false
				}
				return lineClass{Type: ElementTypeFormula, Region: RegionFormula}, true
			},
		},
		{
			Name:     "citation_marker",
			Terminal: false,
			Match: func(rc ruleContext) (lineClass, bool) {
				if !citationPattern.MatchString(rc.Text) {
					return lineClass{}, false
				}
				return lineClass{Type: ElementTypeCitation, Region: RegionCitation}, true
			},
		},
		{
			Name:     "heading",
			Terminal: true,
			Match: func(rc ruleContext) (lineClass, bool) {
				oversized := rc.FontSize > 0 && rc.BodyFontSize > 0 &&
					rc.FontSize >= rc.BodyFontSize*rc.HeadingScale
				if !oversized && !numberedHeadingPattern.MatchString(rc.Text) &&
					!chapterHeadingPattern.MatchString(rc.Text) {
					return lineClass{}, false
				}
				return lineClass{Type: ElementTypeTitle, Region: RegionTitle}, true
			},
		},
		{
			Name:     "body_text",
			Terminal: true,
			Match: func(rc ruleContext) (lineClass, bool) {
				region := RegionMain
				if rc.ReferenceMode {
					region = RegionReference
				}
				return lineClass{Type: ElementTypeText, Region: region}, true
			},
		},
	}
}
