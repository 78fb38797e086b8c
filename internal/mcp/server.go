package mcp

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/paperlint/mcp-paper-auditor/internal/audit"
	"github.com/paperlint/mcp-paper-auditor/internal/config"
)

// Server represents the MCP server instance
type Server struct {
	config       *config.Config
	auditService *audit.Service
	mcpServer    *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, auditService *audit.Service) (*Server, error) {
	if auditService == nil {
		return nil, fmt.Errorf("auditService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:       cfg,
		auditService: auditService,
		mcpServer:    mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	auditFileTool := mcp.NewTool(
		"paper_audit_file",
		mcp.WithDescription("Run the full layout audit on a paper: region classification, "+
			"consistency checks and anchored issues with a 0-100 score"),
		mcp.WithString("path",
			mcp.Description("Full path to the paper PDF (or pass content instead)"),
		),
		mcp.WithString("content",
			mcp.Description("Base64-encoded PDF payload, used when no path is given"),
		),
		mcp.WithString("paper_id",
			mcp.Description("Opaque identifier stamped onto every element"),
		),
		mcp.WithString("chunk_id",
			mcp.Description("Opaque chunk identifier stamped onto every element"),
		),
	)
	s.mcpServer.AddTool(auditFileTool, s.handleAuditFile)

	layoutElementsTool := mcp.NewTool(
		"paper_layout_elements",
		mcp.WithDescription("Classify a paper's pages into semantic regions without running the consistency checks"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the paper PDF"),
		),
	)
	s.mcpServer.AddTool(layoutElementsTool, s.handleLayoutElements)

	validateFileTool := mcp.NewTool(
		"paper_validate_file",
		mcp.WithDescription("Validate that a file is a readable, unencrypted PDF within size limits"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the paper PDF"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)

	searchDirectoryTool := mcp.NewTool(
		"paper_search_directory",
		mcp.WithDescription("Search for paper PDFs in a directory with optional name matching"),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses the configured paper directory if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional substring to match against file names"),
		),
	)
	s.mcpServer.AddTool(searchDirectoryTool, s.handleSearchDirectory)

	serverInfoTool := mcp.NewTool(
		"paper_server_info",
		mcp.WithDescription("Get server information, available tools and usage guidance"),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleAuditFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	path, _ := args["path"].(string)
	content, _ := args["content"].(string)
	paperID, _ := args["paper_id"].(string)
	chunkID, _ := args["chunk_id"].(string)

	var result *audit.AuditFileResult
	var err error
	switch {
	case path != "":
		result, err = s.auditService.AuditFile(ctx, audit.AuditFileRequest{
			Path:    path,
			PaperID: paperID,
			ChunkID: chunkID,
		})
	case content != "":
		result, err = s.auditService.AuditBase64(ctx, audit.AuditBase64Request{
			Content: content,
			PaperID: paperID,
			ChunkID: chunkID,
		})
	default:
		return mcp.NewToolResultError("either path or content is required"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatAuditFileResult(result)), nil
}

func (s *Server) handleLayoutElements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.auditService.LayoutElements(ctx, audit.LayoutElementsRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatLayoutElementsResult(result)), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.auditService.ValidateFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d pages)", result.Path, result.PageCount)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.PaperDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	result, err := s.auditService.SearchDirectory(audit.SearchDirectoryRequest{
		Directory: directory,
		Query:     query,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.Query != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.Query)
		}
	} else {
		responseText = s.formatSearchDirectoryResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info := audit.ServerInfoResult{
		Name:           s.config.ServerName,
		Version:        s.config.Version,
		PaperDirectory: s.auditService.PaperDirectory(),
		MaxFileSize:    s.auditService.MaxFileSize(),
	}
	return mcp.NewToolResultText(s.formatServerInfoResult(&info)), nil
}

// Formatting methods
func (s *Server) formatAuditFileResult(result *audit.AuditFileResult) string {
	text := "Paper Layout Audit\n"
	if result.Path != "" {
		text += fmt.Sprintf("File: %s\n", result.Path)
	}
	if result.PaperID != "" {
		text += fmt.Sprintf("Paper ID: %s\n", result.PaperID)
	}
	text += fmt.Sprintf("Pages: %d\n", result.PageCount)
	text += fmt.Sprintf("Elements: %d\n", len(result.Elements))
	text += fmt.Sprintf("Score: %d (%s)\n", result.Score, result.Level)
	text += fmt.Sprintf("Summary: %s\n", result.Comment)
	if len(result.Tags) > 0 {
		text += fmt.Sprintf("Issue types: %v\n", result.Tags)
	}
	text += fmt.Sprintf("Duration: %s\n", result.Duration)

	if len(result.Issues) > 0 {
		text += "\nIssues:\n"
		for i, issue := range result.Issues {
			text += fmt.Sprintf("%d. [%s] %s (page %d)\n", i+1, issue.Severity, issue.Type, issue.PageNum)
			text += fmt.Sprintf("   %s\n", issue.Message)
			if issue.Evidence != "" {
				text += fmt.Sprintf("   Evidence: %s\n", issue.Evidence)
			}
			if issue.Anchor != nil {
				text += fmt.Sprintf("   Anchor: %s\n", issue.Anchor.ID)
			}
		}
	}

	return text
}

func (s *Server) formatLayoutElementsResult(result *audit.LayoutElementsResult) string {
	text := fmt.Sprintf("Layout elements for: %s\n", result.Path)
	text += fmt.Sprintf("Pages: %d\n", result.PageCount)
	text += fmt.Sprintf("Elements: %d\n\n", len(result.Elements))

	for i, el := range result.Elements {
		text += fmt.Sprintf("%d. page %d %s/%s", i+1, el.PageNum, el.Type, el.Region)
		if el.Content != "" {
			content := el.Content
			if len(content) > 60 {
				content = content[:60] + "..."
			}
			text += fmt.Sprintf(": %s", content)
		}
		text += "\n"
	}

	return text
}

func (s *Server) formatSearchDirectoryResult(result *audit.SearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.Query != "" {
		text += fmt.Sprintf("Search query: %s\n", result.Query)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatServerInfoResult(result *audit.ServerInfoResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", result.Name, result.Version)
	text += fmt.Sprintf("Paper Directory: %s\n", result.PaperDirectory)
	text += fmt.Sprintf("Max File Size: %d MB\n\n", result.MaxFileSize/(1024*1024))

	text += "Available Tools:\n"
	text += "• paper_audit_file - full layout audit with score, issues and anchors\n"
	text += "• paper_layout_elements - region classification only\n"
	text += "• paper_validate_file - structural PDF validation\n"
	text += "• paper_search_directory - discover papers under a directory\n"
	text += "• paper_server_info - this information\n"

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting paper auditor MCP server in stdio mode")
		log.Printf("Paper directory: %s", s.config.PaperDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// The mark3labs transport currently only speaks stdio.
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
