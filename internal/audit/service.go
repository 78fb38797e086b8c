package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/paperlint/mcp-paper-auditor/internal/audit/security"
	"github.com/paperlint/mcp-paper-auditor/internal/layout"
	"github.com/paperlint/mcp-paper-auditor/internal/pdfdoc"
)

// Service is the audit facade: it confines file access to the paper
// directory, opens documents through the provider and runs the layout
// pipeline over them.
type Service struct {
	maxFileSize   int64
	provider      *pdfdoc.Provider
	validator     *pdfdoc.Validator
	analyzer      *layout.Analyzer
	search        *Search
	pathValidator *security.PathValidator
}

// NewService creates an audit service rooted at the given paper directory.
func NewService(maxFileSize int64, paperDirectory string) (*Service, error) {
	return NewServiceWithConfig(maxFileSize, paperDirectory, layout.DefaultConfig())
}

// NewServiceWithConfig creates an audit service with custom layout
// thresholds.
func NewServiceWithConfig(maxFileSize int64, paperDirectory string, layoutConfig layout.Config) (*Service, error) {
	pathValidator, err := security.NewPathValidator(paperDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}
	return &Service{
		maxFileSize:   maxFileSize,
		provider:      pdfdoc.NewProvider(),
		validator:     pdfdoc.NewValidator(maxFileSize),
		analyzer:      layout.NewAnalyzerWithConfig(layoutConfig),
		search:        NewSearch(maxFileSize),
		pathValidator: pathValidator,
	}, nil
}

// AuditFile runs the full layout audit on a paper inside the configured
// directory.
func (s *Service) AuditFile(ctx context.Context, req AuditFileRequest) (*AuditFileResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	src, err := pdfdoc.FromPath(req.Path)
	if err != nil {
		return nil, err
	}
	result, err := s.audit(ctx, src, layout.Meta{PaperID: req.PaperID, ChunkID: req.ChunkID})
	if err != nil {
		return nil, err
	}
	result.Path = req.Path
	return result, nil
}

// AuditBase64 runs the full layout audit on an inline base64 payload.
func (s *Service) AuditBase64(ctx context.Context, req AuditBase64Request) (*AuditFileResult, error) {
	src, err := pdfdoc.FromBase64(req.Content)
	if err != nil {
		return nil, err
	}
	if src.Size() > s.maxFileSize {
		return nil, pdfdoc.NewInputError(
			fmt.Sprintf("payload too large: %d bytes (max: %d bytes)", src.Size(), s.maxFileSize), nil)
	}
	return s.audit(ctx, src, layout.Meta{PaperID: req.PaperID, ChunkID: req.ChunkID})
}

// AuditBytes runs the full layout audit on a raw in-memory payload.
func (s *Service) AuditBytes(ctx context.Context, data []byte, meta layout.Meta) (*AuditFileResult, error) {
	src, err := pdfdoc.FromBytes(data)
	if err != nil {
		return nil, err
	}
	if src.Size() > s.maxFileSize {
		return nil, pdfdoc.NewInputError(
			fmt.Sprintf("payload too large: %d bytes (max: %d bytes)", src.Size(), s.maxFileSize), nil)
	}
	return s.audit(ctx, src, meta)
}

func (s *Service) audit(ctx context.Context, src *pdfdoc.Source, meta layout.Meta) (*AuditFileResult, error) {
	start := time.Now()

	doc, err := s.provider.Open(ctx, src)
	if err != nil {
		return nil, err
	}
	result, err := s.analyzer.Analyze(ctx, doc, meta)
	if err != nil {
		return nil, err
	}

	score := Score(result.Issues)
	return &AuditFileResult{
		PaperID:    meta.PaperID,
		ChunkID:    meta.ChunkID,
		PageCount:  len(doc.Pages),
		Elements:   result.Elements,
		Issues:     result.Issues,
		Highlights: BuildHighlights(result.Issues),
		Score:      score,
		Level:      LevelForScore(score),
		Comment:    Comment(score, result.Issues),
		Tags:       Tags(result.Issues),
		Duration:   time.Since(start),
	}, nil
}

// LayoutElements classifies a paper without running the consistency checks.
func (s *Service) LayoutElements(ctx context.Context, req LayoutElementsRequest) (*LayoutElementsResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	src, err := pdfdoc.FromPath(req.Path)
	if err != nil {
		return nil, err
	}
	doc, err := s.provider.Open(ctx, src)
	if err != nil {
		return nil, err
	}

	classifier := layout.NewRegionClassifier()
	elements := make([]layout.VisualElement, 0)
	meta := layout.Meta{PaperID: req.PaperID, ChunkID: req.ChunkID}
	for _, page := range doc.Pages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		elements = append(elements, classifier.ClassifyPage(page, meta)...)
	}

	return &LayoutElementsResult{
		Path:      req.Path,
		PageCount: len(doc.Pages),
		Elements:  elements,
	}, nil
}

// ValidateFile checks that a paper is a readable PDF within limits.
func (s *Service) ValidateFile(path string) (*pdfdoc.ValidateResult, error) {
	if err := s.pathValidator.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.ValidateFile(path)
}

// SearchDirectory lists PDF papers under a directory, defaulting to the
// configured paper directory.
func (s *Service) SearchDirectory(req SearchDirectoryRequest) (*SearchDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.PaperDirectory()
	}
	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.search.SearchDirectory(req)
}

// PaperDirectory returns the configured paper directory.
func (s *Service) PaperDirectory() string {
	return s.pathValidator.PaperDirectory()
}

// MaxFileSize returns the maximum accepted file size in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}
