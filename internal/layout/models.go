package layout

import (
	"math"
	"time"
)

// ElementType represents the kind of content a visual element carries
type ElementType string

const (
	ElementTypeText     ElementType = "text"
	ElementTypeImage    ElementType = "image"
	ElementTypeFormula  ElementType = "formula"
	ElementTypeTitle    ElementType = "title"
	ElementTypeCitation ElementType = "citation"
)

// Region represents the semantic zone a line or block is assigned to
type Region string

const (
	RegionMain      Region = "main"
	RegionChart     Region = "chart"
	RegionFormula   Region = "formula"
	RegionTitle     Region = "title"
	RegionReference Region = "reference"
	RegionCitation  Region = "citation"
)

// BBox represents a rectangular area in page space. The origin is the
// top-left corner of the page, with Y growing downward, so Y0 < Y1 and a
// smaller Y0 means the box sits higher on the page.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Valid reports whether the box has sane, ordered coordinates.
func (b BBox) Valid() bool {
	for _, v := range []float64{b.X0, b.Y0, b.X1, b.Y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.X0 <= b.X1 && b.Y0 <= b.Y1
}

// VisualElement is one classified unit of page content. Elements are created
// once by the region classifier and never mutated afterward.
type VisualElement struct {
	Type    ElementType `json:"type"`
	Content string      `json:"content"`
	BBox    BBox        `json:"bbox"`
	PageNum int         `json:"page_num"`
	Region  Region      `json:"region"`
	PaperID string      `json:"paper_id,omitempty"`
	ChunkID string      `json:"chunk_id,omitempty"`
}

// IssueType identifies the consistency rule an issue was raised by
type IssueType string

const (
	IssueLabelMissing      IssueType = "Label_Missing"
	IssueFormulaMissing    IssueType = "Formula_Missing"
	IssueFormulaRefMissing IssueType = "Formula_Ref_Missing"
	IssueFormulaMisaligned IssueType = "Formula_Misaligned"
	IssueHierarchyFault    IssueType = "Hierarchy_Fault"
	IssueCitationFault     IssueType = "Citation_Visual_Fault"
)

// Severity represents how serious an issue is
type Severity string

const (
	SeverityInfo     Severity = "Info"
	SeverityWarning  Severity = "Warning"
	SeverityCritical Severity = "Critical"
)

// Anchor is the deterministic identifier and highlight box attached to an
// issue by the anchor assigner. The ID is a content hash, not a counter, so
// two runs over identical input produce identical anchors.
type Anchor struct {
	ID        string `json:"anchor_id"`
	Highlight BBox   `json:"highlight"`
}

// Issue is one detected layout inconsistency. PageNum and BBox always equal
// the page and box of the element that triggered the rule; issues never
// synthesize new geometry. Anchor is nil until the anchor assignment stage.
type Issue struct {
	Type     IssueType `json:"issue_type"`
	Severity Severity  `json:"severity"`
	PageNum  int       `json:"page_num"`
	BBox     BBox      `json:"bbox"`
	Evidence string    `json:"evidence,omitempty"`
	Message  string    `json:"message,omitempty"`
	Anchor   *Anchor   `json:"anchor,omitempty"`
}

// Result is the output of one full analysis run
type Result struct {
	Elements       []VisualElement `json:"elements"`
	Issues         []Issue         `json:"issues"`
	ProcessingTime time.Duration   `json:"processing_time"`
}

// Config holds the tunable thresholds of the layout analyzer
type Config struct {
	// HeadingScale is the minimum ratio of a line's font size to the page
	// body font size for the line to be treated as a heading.
	HeadingScale float64 `json:"heading_scale"`

	// RightAlignRatio is the fraction of the page's maximum right edge a
	// numbered formula must reach to count as right-aligned.
	RightAlignRatio float64 `json:"right_align_ratio"`

	// FallbackBodyFontSize is used as the page body font size when no line
	// on the page carries font metadata.
	FallbackBodyFontSize float64 `json:"fallback_body_font_size"`
}

// DefaultConfig returns the default analyzer configuration
func DefaultConfig() Config {
	return Config{
		HeadingScale:         1.3,
		RightAlignRatio:      0.85,
		FallbackBodyFontSize: 12.0,
	}
}
