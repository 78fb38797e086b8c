package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/paperlint/mcp-paper-auditor/internal/layout"
	"github.com/paperlint/mcp-paper-auditor/internal/pdfdoc"
)

func newTestService(t *testing.T, dir string) *Service {
	t.Helper()
	service, err := NewService(100*1024*1024, dir)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return service
}

func TestNewService(t *testing.T) {
	service := newTestService(t, t.TempDir())
	if service.provider == nil {
		t.Error("provider component should not be nil")
	}
	if service.validator == nil {
		t.Error("validator component should not be nil")
	}
	if service.analyzer == nil {
		t.Error("analyzer component should not be nil")
	}
	if service.search == nil {
		t.Error("search component should not be nil")
	}
	if service.pathValidator == nil {
		t.Error("path validator component should not be nil")
	}
}

func TestNewServiceEmptyDirectory(t *testing.T) {
	if _, err := NewService(1024, ""); err == nil {
		t.Error("expected error for empty paper directory")
	}
}

func TestServiceAccessors(t *testing.T) {
	dir := t.TempDir()
	service := newTestService(t, dir)
	if service.PaperDirectory() != dir {
		t.Errorf("PaperDirectory() = %s, want %s", service.PaperDirectory(), dir)
	}
	if service.MaxFileSize() != 100*1024*1024 {
		t.Errorf("MaxFileSize() = %d", service.MaxFileSize())
	}
}

func TestAuditFileRejectsOutsidePath(t *testing.T) {
	service := newTestService(t, t.TempDir())
	_, err := service.AuditFile(context.Background(), AuditFileRequest{Path: "/etc/passwd"})
	if err == nil {
		t.Fatal("expected security error")
	}
}

func TestAuditFileMissingFile(t *testing.T) {
	dir := t.TempDir()
	service := newTestService(t, dir)
	_, err := service.AuditFile(context.Background(), AuditFileRequest{Path: filepath.Join(dir, "missing.pdf")})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if pdfdoc.KindOf(err) != pdfdoc.ErrorKindInput {
		t.Errorf("error kind = %s, want input", pdfdoc.KindOf(err))
	}
}

func TestAuditBytesRejectsNonPDF(t *testing.T) {
	service := newTestService(t, t.TempDir())
	_, err := service.AuditBytes(context.Background(), []byte("not a pdf"), layout.Meta{})
	if err == nil {
		t.Fatal("expected input error")
	}
	if pdfdoc.KindOf(err) != pdfdoc.ErrorKindInput {
		t.Errorf("error kind = %s, want input", pdfdoc.KindOf(err))
	}
}

func TestAuditBase64RejectsOversizedPayload(t *testing.T) {
	dir := t.TempDir()
	service, err := NewService(10, dir)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	// Valid magic but bigger than the 10-byte limit.
	_, err = service.AuditBytes(context.Background(), []byte("%PDF-1.7\nmore than ten bytes"), layout.Meta{})
	if err == nil {
		t.Fatal("expected size error")
	}
	if pdfdoc.KindOf(err) != pdfdoc.ErrorKindInput {
		t.Errorf("error kind = %s, want input", pdfdoc.KindOf(err))
	}
}

func TestValidateFileRejectsOutsidePath(t *testing.T) {
	service := newTestService(t, t.TempDir())
	if _, err := service.ValidateFile("/etc/passwd"); err == nil {
		t.Error("expected security error")
	}
}

func TestSearchDirectoryDefaultsToPaperDirectory(t *testing.T) {
	dir := t.TempDir()
	service := newTestService(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "paper.pdf"), []byte("%PDF-1.7\ncontent"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	result, err := service.SearchDirectory(SearchDirectoryRequest{})
	if err != nil {
		t.Fatalf("SearchDirectory failed: %v", err)
	}
	if result.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1", result.TotalCount)
	}
}

func TestSearchDirectoryRejectsOutsideDirectory(t *testing.T) {
	service := newTestService(t, t.TempDir())
	if _, err := service.SearchDirectory(SearchDirectoryRequest{Directory: "/etc"}); err == nil {
		t.Error("expected security error")
	}
}
