package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-mbft-auditor/internal/audit"
	"github.com/a3tai/mcp-mbft-auditor/internal/citation"
	"github.com/a3tai/mcp-mbft-auditor/internal/config"
	"github.com/a3tai/mcp-mbft-auditor/internal/descriptions"
	"github.com/a3tai/mcp-mbft-auditor/internal/pdf"
	"github.com/a3tai/mcp-mbft-auditor/internal/pdf/security"
	"github.com/a3tai/mcp-mbft-auditor/internal/report"
)

const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	analyzer  *audit.Analyzer
	reader    *pdf.Reader
	validator *pdf.Validator
	paths     *security.PathValidator
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance. File arguments are confined
// to the citation and rulebook directories of cfg.
func NewServer(cfg *config.Config, analyzer *audit.Analyzer, reader *pdf.Reader) (*Server, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("analyzer cannot be nil")
	}
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	paths, err := security.NewPathValidator(cfg.CitationDirectory, cfg.RulebookDirectory)
	if err != nil {
		return nil, fmt.Errorf("invalid directories: %w", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		analyzer:  analyzer,
		reader:    reader,
		validator: pdf.NewValidator(cfg.MaxFileSize),
		paths:     paths,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

func formatOption() mcp.ToolOption {
	return mcp.WithString("format",
		mcp.Description("Output format: 'text' (default) or 'yaml'"),
		mcp.Enum(report.Names()...),
	)
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"mbft_audit_file",
		mcp.WithDescription(descriptions.GetToolDescription("mbft_audit_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the citation PDF, absolute or relative to the citation directory"),
		),
		formatOption(),
	), s.handleAuditFile)

	s.mcpServer.AddTool(mcp.NewTool(
		"mbft_audit_text",
		mcp.WithDescription(descriptions.GetToolDescription("mbft_audit_text")),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Full text of the citation"),
		),
		formatOption(),
	), s.handleAuditText)

	s.mcpServer.AddTool(mcp.NewTool(
		"mbft_extract_fields",
		mcp.WithDescription(descriptions.GetToolDescription("mbft_extract_fields")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the citation PDF, absolute or relative to the citation directory"),
		),
	), s.handleExtractFields)

	s.mcpServer.AddTool(mcp.NewTool(
		"mbft_rulebook_context",
		mcp.WithDescription(descriptions.GetToolDescription("mbft_rulebook_context")),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Infraction code, e.g. 518-51 or 51851"),
		),
	), s.handleRulebookContext)

	s.mcpServer.AddTool(mcp.NewTool(
		"mbft_list_rulebooks",
		mcp.WithDescription(descriptions.GetToolDescription("mbft_list_rulebooks")),
	), s.handleListRulebooks)

	s.mcpServer.AddTool(mcp.NewTool(
		"mbft_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("mbft_server_info")),
	), s.handleServerInfo)
}

func (s *Server) handleAuditFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	formatter, err := report.Get(request.GetString("format", "text"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resolved, err := s.checkPDF(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.render(formatter, s.analyzer.AnalyzeFile(resolved))
}

func (s *Server) handleAuditText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	formatter, err := report.Get(request.GetString("format", "text"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.render(formatter, s.analyzer.AnalyzeText(text))
}

func (s *Server) handleExtractFields(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resolved, err := s.checkPDF(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.reader.ReadFile(resolved)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fields := citation.ExtractFields(doc.Text, s.analyzer.Boundary())
	return mcp.NewToolResultText(formatFields(doc, fields)), nil
}

func (s *Server) handleRulebookContext(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	lookup := s.analyzer.RulebookContext(code)
	if !lookup.Found {
		return mcp.NewToolResultError(fmt.Sprintf("no MBFT rulebook for code %q in %s",
			lookup.Code, s.analyzer.Corpus().Dir())), nil
	}
	return mcp.NewToolResultText(formatLookup(lookup)), nil
}

func (s *Server) handleListRulebooks(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.analyzer.Corpus().List()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("MBFT rulebook directory: %s\n", s.analyzer.Corpus().Dir())
	text += fmt.Sprintf("Rulebooks found: %d\n", len(entries))
	for i, e := range entries {
		code := e.Code
		if code == "" {
			code = "?"
		}
		text += fmt.Sprintf("%d. %s (code %s, %d bytes)\n", i+1, e.Name, code, e.Size)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := fmt.Sprintf("%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("Citation directory: %s\n", s.config.CitationDirectory)
	text += fmt.Sprintf("Rulebook directory: %s\n", s.config.RulebookDirectory)
	text += fmt.Sprintf("Max file size: %d MB\n", s.config.MaxFileSize/(1024*1024))

	if entries, err := s.analyzer.Corpus().List(); err == nil {
		text += fmt.Sprintf("Rulebooks available: %d\n", len(entries))
	} else {
		text += "Rulebooks available: 0 (directory not readable)\n"
	}
	if extra := len(s.analyzer.Boundary().Labels()) - len(citation.DefaultStopLabels); extra > 0 {
		text += fmt.Sprintf("Extra stop labels: %d\n", extra)
	}

	text += "\nAvailable tools:\n"
	for _, name := range descriptions.GetAllToolNames() {
		text += fmt.Sprintf("  - %s\n", name)
	}

	text += "\nUsage guide:\n"
	text += "1. Call 'mbft_list_rulebooks' to confirm the rulebook sheet for the code is present.\n"
	text += "2. Call 'mbft_audit_file' with the citation PDF, or 'mbft_audit_text' with its text.\n"
	text += "3. If the code is not detected, call 'mbft_extract_fields' to see what was read.\n"
	text += "4. Call 'mbft_rulebook_context' to read what the MBFT requires for a code.\n"
	return mcp.NewToolResultText(text), nil
}

// checkPDF resolves path inside the allowed directories and validates it.
func (s *Server) checkPDF(path string) (string, error) {
	resolved, err := s.paths.Resolve(path)
	if err != nil {
		return "", err
	}
	result, err := s.validator.Validate(resolved)
	if err != nil {
		return "", err
	}
	if !result.Valid {
		return "", fmt.Errorf("PDF validation failed for %s: %s", resolved, result.Message)
	}
	return resolved, nil
}

func (s *Server) render(formatter report.Formatter, out audit.Outcome) (*mcp.CallToolResult, error) {
	text, err := formatter.Format(out, report.Options{NoColor: true, Verbose: true})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func formatFields(doc *pdf.Document, f citation.Fields) string {
	code := f.Code
	if !f.CodeFound {
		code = "não localizado"
	}
	text := fmt.Sprintf("Citation: %s (%d pages, %d form fields)\n", doc.Path, doc.Pages, doc.FormFields)
	text += fmt.Sprintf("Código da infração: %s\n", code)
	text += fmt.Sprintf("Órgão autuador: %s\n", f.Authority)
	text += fmt.Sprintf("Conduta: %s\n", f.Conduct)
	text += fmt.Sprintf("Observações: %s\n", f.Observation)
	return text
}

func formatLookup(l audit.Lookup) string {
	text := fmt.Sprintf("Rulebook for %s: %s\n", l.Code, l.Rulebook.Name)
	text += fmt.Sprintf("Mentions the observation field: %t\n", l.Context.MentionsObservation)
	text += fmt.Sprintf("Observation content mandatory: %t\n", l.Context.Mandatory)

	text += "\nPrincipal excerpt:\n"
	if l.Context.PrincipalExcerpt != "" {
		text += l.Context.PrincipalExcerpt + "\n"
	} else {
		text += "(none)\n"
	}

	if len(l.Context.Passages) > 0 {
		text += fmt.Sprintf("\nPassages mentioning 'observa' (%d):\n", len(l.Context.Passages))
		for i, p := range l.Context.Passages {
			text += fmt.Sprintf("%d. %s\n", i+1, strings.TrimSpace(p))
		}
	}
	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	switch {
	case s.config.IsServerMode():
		return s.runServerMode(ctx)
	case s.config.IsStdioMode():
		return s.runStdioMode(ctx)
	default:
		return fmt.Errorf("unsupported mode: %s", s.config.Mode)
	}
}

// runStdioMode serves MCP over stdin/stdout until ctx ends or stdin closes.
func (s *Server) runStdioMode(ctx context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting MBFT auditor in stdio mode")
		log.Printf("Citation directory: %s", s.config.CitationDirectory)
		log.Printf("Rulebook directory: %s", s.config.RulebookDirectory)
	}

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.New(os.Stderr, "", log.LstdFlags))
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over HTTP with server-sent events until ctx ends.
func (s *Server) runServerMode(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("server not started: %w", err)
	}

	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address(), err)
	}

	httpServer := &http.Server{ReadHeaderTimeout: 10 * time.Second}
	sse := server.NewSSEServer(s.mcpServer,
		server.WithBaseURL("http://"+ln.Addr().String()),
		server.WithHTTPServer(httpServer),
	)
	httpServer.Handler = sse

	log.Printf("MBFT auditor listening on %s (SSE endpoint /sse)", ln.Addr())

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sse.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	<-errCh
	log.Printf("MBFT auditor stopped")
	return nil
}
