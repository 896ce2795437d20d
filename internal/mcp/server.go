package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/sat-pdf-parser/internal/config"
	"github.com/a3tai/sat-pdf-parser/internal/logger"
	"github.com/a3tai/sat-pdf-parser/internal/output"
	"github.com/a3tai/sat-pdf-parser/internal/pdf"
	"github.com/a3tai/sat-pdf-parser/internal/pipeline"
	"github.com/a3tai/sat-pdf-parser/internal/question"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	pipeline   *pipeline.Service
	mcpServer  *server.MCPServer
	log        *logger.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, pipe *pipeline.Service, log *logger.Logger) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if pipe == nil {
		return nil, fmt.Errorf("pipeline cannot be nil")
	}
	if log == nil {
		log = logger.Nop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		pipeline:   pipe,
		mcpServer:  mcpServer,
		log:        log,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		"sat_extract_questions",
		mcp.WithDescription(ExtractQuestionsDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the College Board SAT PDF"),
		),
		mcp.WithString("set_name",
			mcp.Description("Name for the question set (default: "+question.DefaultSetName+")"),
		),
		mcp.WithString("output",
			mcp.Description("Output JSON path inside the output directory (default: <output-dir>/<pdf name>.json)"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractQuestions)

	parseTextTool := mcp.NewTool(
		"sat_parse_text",
		mcp.WithDescription(ParseTextDescription),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Full extracted document text"),
		),
		mcp.WithString("set_name",
			mcp.Description("Name for the question set"),
		),
	)
	s.mcpServer.AddTool(parseTextTool, s.handleParseText)

	validateTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription(ValidateFileDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateTool, s.handlePDFValidateFile)
}

// optionalString returns a string argument or def when absent or empty
func optionalString(request mcp.CallToolRequest, key, def string) string {
	if v, ok := request.GetArguments()[key].(string); ok && v != "" {
		return v
	}
	return def
}

func (s *Server) handleExtractQuestions(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	setName := optionalString(request, "set_name", s.config.SetName)
	outPath := output.DefaultPath(s.config.OutputDir, path)
	if requested := optionalString(request, "output", ""); requested != "" {
		outPath, err = output.ResolveWithin(s.config.OutputDir, requested)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	ext, err := s.pipeline.Convert(ctx, path, outPath, setName)
	if err != nil {
		if errors.Is(err, question.ErrNoQuestions) {
			return mcp.NewToolResultError(
				"No questions found in PDF. This parser is designed for College Board SAT format PDFs."), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatExtraction(ext, outPath)), nil
}

func (s *Server) handleParseText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	setName := optionalString(request, "set_name", s.config.SetName)

	ext, err := s.pipeline.ParseText(ctx, text, setName)
	if err != nil && !errors.Is(err, question.ErrNoQuestions) {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := output.Encode(ext.Set)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handlePDFValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := s.pdfService.ValidateFile(path)

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d pages)", result.Path, result.Pages)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func formatExtraction(ext *pipeline.Extraction, outPath string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Successfully parsed %d questions\n", len(ext.Set.Questions))
	fmt.Fprintf(&b, "Saved to: %s\n", outPath)
	fmt.Fprintf(&b, "Set name: %s\n", ext.Set.SetName)
	fmt.Fprintf(&b, "Candidate blocks: %d\n", ext.Result.Blocks)
	if len(ext.Result.Skipped) > 0 {
		fmt.Fprintf(&b, "\nSkipped blocks (%d):\n", len(ext.Result.Skipped))
		for _, rej := range ext.Result.Skipped {
			fmt.Fprintf(&b, "  • %s\n", rej.Error())
		}
	}
	return b.String()
}

// Run serves MCP over the process's stdin and stdout until ctx ends or input closes
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve serves MCP over the given streams
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.log.Debug("starting MCP server in stdio mode", "name", s.config.ServerName, "version", s.config.Version)

	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, in, out); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
