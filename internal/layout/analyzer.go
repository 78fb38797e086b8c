package layout

import (
	"context"
	"time"

	"github.com/paperlint/mcp-paper-auditor/internal/pdfdoc"
)

// Analyzer sequences classification, checking and anchor assignment for a
// whole document.
type Analyzer struct {
	config     Config
	classifier *RegionClassifier
	checker    *ConsistencyChecker
	anchors    *AnchorAssigner
}

// NewAnalyzer creates an analyzer with default configuration.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(DefaultConfig())
}

// NewAnalyzerWithConfig creates an analyzer with custom configuration.
func NewAnalyzerWithConfig(config Config) *Analyzer {
	return &Analyzer{
		config:     config,
		classifier: NewRegionClassifierWithConfig(config),
		checker:    NewConsistencyCheckerWithConfig(config),
		anchors:    NewAnchorAssigner(),
	}
}

// Analyze classifies every page, runs the consistency checks over the full
// page-ordered element sequence, and assigns anchors to the resulting
// issues. A document with zero pages yields empty elements and issues.
func (a *Analyzer) Analyze(ctx context.Context, doc *pdfdoc.Document, meta Meta) (*Result, error) {
	start := time.Now()

	elements := make([]VisualElement, 0)
	for _, page := range doc.Pages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		elements = append(elements, a.classifier.ClassifyPage(page, meta)...)
	}

	issues := a.anchors.Assign(a.checker.Check(elements))

	return &Result{
		Elements:       elements,
		Issues:         issues,
		ProcessingTime: time.Since(start),
	}, nil
}
