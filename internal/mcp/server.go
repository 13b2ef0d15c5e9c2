package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/a3tai/mcp-form-analyzer/internal/analysis"
	"github.com/a3tai/mcp-form-analyzer/internal/config"
	"github.com/a3tai/mcp-form-analyzer/internal/descriptions"
	"github.com/a3tai/mcp-form-analyzer/internal/forms"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *analysis.Service
	mcpServer *server.MCPServer
	logger    *logrus.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *analysis.Service, logger *logrus.Logger) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("analysis service cannot be nil")
	}
	if logger == nil {
		logger = logrus.New()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
		logger:    logger,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	analyzeTool := mcp.NewTool(
		"form_analyze",
		mcp.WithDescription(descriptions.FormAnalyzeDescription),
		mcp.WithString("path",
			mcp.Description("Raw analysis JSON file, relative to the documents directory or absolute within it"),
		),
		mcp.WithString("content",
			mcp.Description("Raw analysis JSON given inline instead of a path"),
		),
		mcp.WithString("pdf_path",
			mcp.Description("Optional source PDF whose page sizes fill in undeclared page extents"),
		),
		mcp.WithString("unit",
			mcp.Description("Output unit: 'pixel' or 'page_fraction'"),
		),
		mcp.WithNumber("scale",
			mcp.Description("Source-to-pixel scale factor; omitted derives it from the raw result's unit"),
		),
		mcp.WithString("font_family",
			mcp.Description("Font family used for capacity estimation"),
		),
		mcp.WithNumber("font_size",
			mcp.Description("Font size used for capacity estimation"),
		),
	)
	s.mcpServer.AddTool(analyzeTool, s.handleFormAnalyze)

	pageDimensionsTool := mcp.NewTool(
		"form_page_dimensions",
		mcp.WithDescription(descriptions.FormPageDimensionsDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("PDF file, relative to the documents directory or absolute within it"),
		),
	)
	s.mcpServer.AddTool(pageDimensionsTool, s.handleFormPageDimensions)

	serverInfoTool := mcp.NewTool(
		"form_server_info",
		mcp.WithDescription(descriptions.FormServerInfoDescription),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleFormServerInfo)
}

func (s *Server) handleFormAnalyze(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	req := analysis.AnalyzeRequest{
		Path:       stringArg(args, "path"),
		Content:    stringArg(args, "content"),
		PDFPath:    stringArg(args, "pdf_path"),
		Unit:       stringArg(args, "unit"),
		Scale:      numberArg(args, "scale"),
		FontFamily: stringArg(args, "font_family"),
		FontSize:   numberArg(args, "font_size"),
	}

	result, err := s.service.Analyze(req)
	if err != nil {
		var inputErr *forms.InputError
		if errors.As(err, &inputErr) {
			return mcp.NewToolResultError(fmt.Sprintf("analysis rejected: %s", inputErr.Error())), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	encoded, err := forms.EncodeResult(result.Result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatAnalyzeSummary(result) + "\n" + string(encoded)), nil
}

func (s *Server) handleFormPageDimensions(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.PageDimensions(analysis.PageDimensionsRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Page dimensions for %s (%d pages, PDF points):\n", result.Path, len(result.Pages))
	for _, p := range result.Pages {
		fmt.Fprintf(&b, "  Page %d: %.2f x %.2f pt (%.2f x %.2f in)\n",
			p.PageNumber, p.Width, p.Height, p.Width/forms.PointsPerInch, p.Height/forms.PointsPerInch)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleFormServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

// formatAnalyzeSummary renders the headline numbers of an analysis
func (s *Server) formatAnalyzeSummary(r *analysis.AnalyzeResult) string {
	res := r.Result
	var b strings.Builder
	fmt.Fprintf(&b, "Analyzed form: %s\n", r.Source)
	fmt.Fprintf(&b, "Status: %s\n", res.Status)
	fmt.Fprintf(&b, "Fields: %d (%d positioned)\n", res.Summary.TotalFields, res.Summary.PositionedFields)
	fmt.Fprintf(&b, "Document confidence: %.3f\n", res.DocumentConfidence)
	fmt.Fprintf(&b, "Completeness: %.1f%%\n", res.Completeness*100)
	fmt.Fprintf(&b, "Overflowing fields: %d\n", res.Summary.OverflowingFields)
	fmt.Fprintf(&b, "Conflicts: %d (severe %d, moderate %d, minor %d)\n", len(res.Conflicts),
		res.Summary.ConflictCounts[forms.SeveritySevere],
		res.Summary.ConflictCounts[forms.SeverityModerate],
		res.Summary.ConflictCounts[forms.SeverityMinor])
	if len(res.Warnings) > 0 {
		fmt.Fprintf(&b, "\n⚠️  %d warnings:\n", len(res.Warnings))
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "  • %s\n", w)
		}
	}
	return b.String()
}

// formatServerInfo describes the configuration and built-in tables
func (s *Server) formatServerInfo() string {
	defaults := s.service.Defaults()

	var b strings.Builder
	fmt.Fprintf(&b, "%s v%s\n", s.config.ServerName, s.config.Version)
	fmt.Fprintf(&b, "Documents directory: %s\n", s.service.Directory())
	fmt.Fprintf(&b, "Default unit: %s\n", defaults.Unit)
	if defaults.Scale == 0 {
		fmt.Fprintf(&b, "Default scale: derived from the raw result's unit (inch → %g)\n", forms.PointsPerInch)
	} else {
		fmt.Fprintf(&b, "Default scale: %g\n", defaults.Scale)
	}
	fmt.Fprintf(&b, "Default font: %s %gpt\n", defaults.FontFamily, defaults.FontSize)

	b.WriteString("\n🛠️  Tools:\n")
	b.WriteString("  • form_analyze\n  • form_page_dimensions\n  • form_server_info\n")

	families := make([]string, 0, len(defaults.Tables.FontWidths))
	for f := range defaults.Tables.FontWidths {
		families = append(families, f)
	}
	sort.Strings(families)
	fmt.Fprintf(&b, "\n🔤 Font families with width metrics (fallback %g em):\n", defaults.Tables.FallbackCharWidth)
	for _, f := range families {
		fmt.Fprintf(&b, "  • %s: %g em\n", f, defaults.Tables.FontWidths[f])
	}

	b.WriteString("\n🏥 Medical categories (first match wins):\n")
	for _, c := range defaults.Tables.Categories {
		fmt.Fprintf(&b, "  • %s (%d keywords)\n", c.MedicalType, len(c.Keywords))
	}

	b.WriteString("\n🔎 Value validators (first match wins):\n")
	for _, v := range defaults.Tables.Validators {
		fmt.Fprintf(&b, "  • %s → %s\n", v.Name, v.FieldType)
	}
	return b.String()
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
	s.logger.WithField("dir", s.service.Directory()).Debug("starting form analyzer in stdio mode")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over streamable HTTP until ctx is cancelled
func (s *Server) runServerMode(ctx context.Context) error {
	httpServer := server.NewStreamableHTTPServer(s.mcpServer)

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.config.Address()).Info("starting form analyzer HTTP server")
		errCh <- httpServer.Start(s.config.Address())
	}()

	select {
	case <-ctx.Done():
		if err := httpServer.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	}
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func numberArg(args map[string]interface{}, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}
