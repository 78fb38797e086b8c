package layout

import (
	"sort"
	"strings"

	"github.com/paperlint/mcp-paper-auditor/internal/pdfdoc"
)

// Meta carries caller-supplied identifiers stamped onto every element.
type Meta struct {
	PaperID string
	ChunkID string
}

// RegionClassifier assigns a semantic region to every line and image block
// of a page using an ordered rule cascade.
type RegionClassifier struct {
	config Config
	rules  []lineRule
}

// NewRegionClassifier creates a classifier with default configuration.
func NewRegionClassifier() *RegionClassifier {
	return NewRegionClassifierWithConfig(DefaultConfig())
}

// NewRegionClassifierWithConfig creates a classifier with custom configuration.
func NewRegionClassifierWithConfig(config Config) *RegionClassifier {
	return &RegionClassifier{
		config: config,
		rules:  classifierRules(),
	}
}

// ClassifyPage converts one page of raw blocks into classified visual
// elements. Reference mode starts false on every page: a reference section
// heading flips it for the remainder of that page only.
func (c *RegionClassifier) ClassifyPage(page pdfdoc.Page, meta Meta) []VisualElement {
	// A page without any text blocks is treated as scanned: one
	// whole-page image element and nothing else.
	if len(page.TextBlocks) == 0 {
		return []VisualElement{{
			Type:    ElementTypeImage,
			Content: "",
			BBox:    BBox{X0: 0, Y0: 0, X1: page.Width, Y1: page.Height},
			PageNum: page.Number,
			Region:  RegionMain,
			PaperID: meta.PaperID,
			ChunkID: meta.ChunkID,
		}}
	}

	bodyFont := c.bodyFontSize(page)
	elements := make([]VisualElement, 0, len(page.TextBlocks)*4)
	referenceMode := false

	for _, block := range page.TextBlocks {
		for _, line := range block.Lines {
			text := strings.TrimSpace(line.Text)
			if text == "" {
				continue
			}
			bbox := BBox{X0: line.X0, Y0: line.Y0, X1: line.X1, Y1: line.Y1}
			if !bbox.Valid() {
				continue
			}

			rc := ruleContext{
				Text:          text,
				FontSize:      line.FontSize,
				BodyFontSize:  bodyFont,
				HeadingScale:  c.config.HeadingScale,
				ReferenceMode: referenceMode,
			}

			for _, rule := range c.rules {
				class, ok := rule.Match(rc)
				if !ok {
					continue
				}
				if class.SetsReferenceMode {
					referenceMode = true
				}
				if !rule.Terminal {
					// Citation markers: one element per bracket
					// group, sharing the line geometry.
					for _, marker := range citationPattern.FindAllString(text, -1) {
						elements = append(elements, VisualElement{
							Type:    class.Type,
							Content: marker,
							BBox:    bbox,
							PageNum: page.Number,
							Region:  class.Region,
							PaperID: meta.PaperID,
							ChunkID: meta.ChunkID,
						})
					}
					continue
				}
				elements = append(elements, VisualElement{
					Type:    class.Type,
					Content: text,
					BBox:    bbox,
					PageNum: page.Number,
					Region:  class.Region,
					PaperID: meta.PaperID,
					ChunkID: meta.ChunkID,
				})
				break
			}
		}
	}

	for _, img := range page.ImageBlocks {
		bbox := BBox{X0: img.X0, Y0: img.Y0, X1: img.X1, Y1: img.Y1}
		if !bbox.Valid() {
			continue
		}
		elements = append(elements, VisualElement{
			Type:    ElementTypeImage,
			BBox:    bbox,
			PageNum: page.Number,
			Region:  RegionChart,
			PaperID: meta.PaperID,
			ChunkID: meta.ChunkID,
		})
	}

	return elements
}

// bodyFontSize estimates the dominant body text size as the median of all
// positive line font sizes on the page.
func (c *RegionClassifier) bodyFontSize(page pdfdoc.Page) float64 {
	sizes := make([]float64, 0, 64)
	for _, block := range page.TextBlocks {
		for _, line := range block.Lines {
			if line.FontSize > 0 {
				sizes = append(sizes, line.FontSize)
			}
		}
	}
	if len(sizes) == 0 {
		return c.config.FallbackBodyFontSize
	}
	sort.Float64s(sizes)
	mid := len(sizes) / 2
	if len(sizes)%2 == 1 {
		return sizes[mid]
	}
	return (sizes[mid-1] + sizes[mid]) / 2
}
