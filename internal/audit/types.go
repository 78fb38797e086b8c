package audit

import (
	"time"

	"github.com/paperlint/mcp-paper-auditor/internal/layout"
)

// AuditFileRequest asks for a full layout audit of one paper on disk.
type AuditFileRequest struct {
	Path    string `json:"path"`
	PaperID string `json:"paper_id,omitempty"`
	ChunkID string `json:"chunk_id,omitempty"`
}

// AuditBase64Request asks for a full layout audit of an inline payload.
type AuditBase64Request struct {
	Content string `json:"content"`
	PaperID string `json:"paper_id,omitempty"`
	ChunkID string `json:"chunk_id,omitempty"`
}

// AuditFileResult is the complete outcome of one audit run.
type AuditFileResult struct {
	Path       string                  `json:"path,omitempty"`
	PaperID    string                  `json:"paper_id,omitempty"`
	ChunkID    string                  `json:"chunk_id,omitempty"`
	PageCount  int                     `json:"page_count"`
	Elements   []layout.VisualElement  `json:"elements"`
	Issues     []layout.Issue          `json:"issues"`
	Highlights []Highlight             `json:"highlights"`
	Score      int                     `json:"score"`
	Level      AuditLevel              `json:"level"`
	Comment    string                  `json:"comment"`
	Tags       []string                `json:"tags"`
	Duration   time.Duration           `json:"duration"`
}

// LayoutElementsRequest asks for classification only, without checks.
type LayoutElementsRequest struct {
	Path    string `json:"path"`
	PaperID string `json:"paper_id,omitempty"`
	ChunkID string `json:"chunk_id,omitempty"`
}

// LayoutElementsResult holds the classified elements of one paper.
type LayoutElementsResult struct {
	Path      string                 `json:"path"`
	PageCount int                    `json:"page_count"`
	Elements  []layout.VisualElement `json:"elements"`
}

// SearchDirectoryRequest asks for PDF discovery under a directory.
type SearchDirectoryRequest struct {
	Directory string `json:"directory,omitempty"`
	Query     string `json:"query,omitempty"`
}

// FileInfo describes one discovered PDF file.
type FileInfo struct {
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	ModifiedTime time.Time `json:"modified_time"`
}

// SearchDirectoryResult lists the PDF files found under a directory.
type SearchDirectoryResult struct {
	Directory  string     `json:"directory"`
	Query      string     `json:"query,omitempty"`
	Files      []FileInfo `json:"files"`
	TotalCount int        `json:"total_count"`
	TotalSize  int64      `json:"total_size"`
}

// ServerInfoResult describes the running service.
type ServerInfoResult struct {
	Name           string `json:"name"`
	Version        string `json:"version"`
	PaperDirectory string `json:"paper_directory"`
	MaxFileSize    int64  `json:"max_file_size"`
}
