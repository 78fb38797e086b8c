package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/paperlint/mcp-paper-auditor/internal/audit"
	"github.com/paperlint/mcp-paper-auditor/internal/config"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		Mode:            config.ModeStdio,
		Host:            "127.0.0.1",
		Port:            8080,
		PaperDirectory:  dir,
		Version:         "1.0.0",
		ServerName:      "test-paper-auditor",
		LogLevel:        "info",
		MaxFileSize:     1024 * 1024,
		HeadingScale:    config.DefaultHeadingScale,
		RightAlignRatio: config.DefaultRightAlignRatio,
	}
}

func newTestServer(t *testing.T, dir string) *Server {
	t.Helper()
	auditService, err := audit.NewService(1024*1024, dir)
	if err != nil {
		t.Fatalf("Failed to create audit service: %v", err)
	}
	server, err := NewServer(testConfig(dir), auditService)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	return server
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	var sb strings.Builder
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			sb.WriteString(textContent.Text)
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			sb.WriteString(textContentPtr.Text)
		}
	}
	return sb.String()
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestNewServer(t *testing.T) {
	dir := t.TempDir()
	server := newTestServer(t, dir)
	if server.mcpServer == nil {
		t.Error("mcpServer should not be nil")
	}
	if server.auditService == nil {
		t.Error("auditService should not be nil")
	}
}

func TestNewServerNilService(t *testing.T) {
	if _, err := NewServer(testConfig(t.TempDir()), nil); err == nil {
		t.Error("expected error for nil audit service")
	}
}

func TestHandleAuditFileRequiresInput(t *testing.T) {
	server := newTestServer(t, t.TempDir())
	result, err := server.handleAuditFile(context.Background(), toolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result without path or content")
	}
}

func TestHandleAuditFileMissingFile(t *testing.T) {
	dir := t.TempDir()
	server := newTestServer(t, dir)
	result, err := server.handleAuditFile(context.Background(), toolRequest(map[string]interface{}{
		"path": filepath.Join(dir, "missing.pdf"),
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for missing file")
	}
}

func TestHandleAuditFileRejectsBadBase64(t *testing.T) {
	server := newTestServer(t, t.TempDir())
	result, err := server.handleAuditFile(context.Background(), toolRequest(map[string]interface{}{
		"content": "!!not base64!!",
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for invalid base64")
	}
}

func TestHandleValidateFile(t *testing.T) {
	dir := t.TempDir()
	// Not a structurally valid PDF, so validation reports failure.
	path := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.7\nbroken"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	server := newTestServer(t, dir)
	result, err := server.handleValidateFile(context.Background(), toolRequest(map[string]interface{}{
		"path": path,
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "validation failed") {
		t.Errorf("unexpected response: %s", text)
	}
}

func TestHandleValidateFileRequiresPath(t *testing.T) {
	server := newTestServer(t, t.TempDir())
	result, err := server.handleValidateFile(context.Background(), toolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result without path")
	}
}

func TestHandleSearchDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "paper.pdf"), []byte("%PDF-1.7\ncontent"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	server := newTestServer(t, dir)
	result, err := server.handleSearchDirectory(context.Background(), toolRequest(map[string]interface{}{
		"directory": dir,
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "paper.pdf") {
		t.Errorf("expected file listing, got: %s", text)
	}
}

func TestHandleSearchDirectoryEmpty(t *testing.T) {
	dir := t.TempDir()
	server := newTestServer(t, dir)
	result, err := server.handleSearchDirectory(context.Background(), toolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "No PDF files found") {
		t.Errorf("unexpected response: %s", text)
	}
}

func TestHandleServerInfo(t *testing.T) {
	dir := t.TempDir()
	server := newTestServer(t, dir)
	result, err := server.handleServerInfo(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := resultText(t, result)
	for _, want := range []string{"test-paper-auditor", "paper_audit_file", "paper_search_directory", dir} {
		if !strings.Contains(text, want) {
			t.Errorf("server info missing %q: %s", want, text)
		}
	}
}
