// Package mcp exposes the compile and validation pipeline as MCP tools,
// so agent runtimes can turn prompt text into workflow documents over
// stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/pkg/contract"
	"github.com/aretw0/graft/pkg/rules"
	"github.com/aretw0/graft/pkg/workflow"
)

// CompileResponse is the structured output of the compile_contract tool.
type CompileResponse struct {
	Success   bool               `json:"success" jsonschema_description:"Whether compilation produced a contract"`
	Contract  *contract.Contract `json:"contract,omitempty" jsonschema_description:"The compiled contract"`
	Canonical string             `json:"canonical,omitempty" jsonschema_description:"The contract formatted back as DSL text"`
	Errors    []contract.Issue   `json:"errors,omitempty" jsonschema_description:"Blocking diagnostics"`
	Warnings  []contract.Issue   `json:"warnings,omitempty" jsonschema_description:"Non-blocking diagnostics"`
}

// GenerateResponse is the structured output of the generate_workflow tool.
type GenerateResponse struct {
	Success  bool               `json:"success" jsonschema_description:"Whether the full pipeline passed"`
	Workflow *workflow.Workflow `json:"workflow,omitempty" jsonschema_description:"The generated workflow document"`
	Report   *rules.Report      `json:"report,omitempty" jsonschema_description:"The validation report"`
	Errors   []contract.Issue   `json:"errors,omitempty" jsonschema_description:"Blocking diagnostics"`
}

// Server wraps the pipeline engine and exposes it as an MCP server.
type Server struct {
	engine    *graft.Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(engine *graft.Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("graft-mcp", graft.Version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: compile_contract
	compileTool := mcp.NewTool("compile_contract",
		mcp.WithDescription("Compile prompt DSL text into a structured workflow contract without generating the graph."),
		mcp.WithString("source", mcp.Required(), mcp.Description("The DSL source text (@trigger, @workflow sections)")),
		mcp.WithOutputSchema[CompileResponse](),
	)
	s.mcpServer.AddTool(compileTool, mcp.NewStructuredToolHandler(s.handleCompile))

	// TOOL: generate_workflow
	generateTool := mcp.NewTool("generate_workflow",
		mcp.WithDescription("Compile DSL text, generate the workflow graph and validate it."),
		mcp.WithString("source", mcp.Required(), mcp.Description("The DSL source text")),
		mcp.WithString("name", mcp.Description("Workflow name override (optional)")),
		mcp.WithOutputSchema[GenerateResponse](),
	)
	s.mcpServer.AddTool(generateTool, mcp.NewStructuredToolHandler(s.handleGenerate))

	// TOOL: validate_workflow
	validateTool := mcp.NewTool("validate_workflow",
		mcp.WithDescription("Run the rule engine over an existing workflow JSON document."),
		mcp.WithString("workflow", mcp.Required(), mcp.Description("The workflow document as JSON text")),
		mcp.WithOutputSchema[rules.Report](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: list_node_types
	s.mcpServer.AddTool(mcp.NewTool("list_node_types",
		mcp.WithDescription("List the runtime node types the generator can emit."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(workflow.KnownTypes())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleCompile(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CompileResponse, error) {
	source, _ := args["source"].(string)
	if source == "" {
		return CompileResponse{}, fmt.Errorf("source must not be empty")
	}

	res := s.engine.Compile(source)
	return CompileResponse{
		Success:   res.Success(),
		Contract:  res.Contract,
		Canonical: res.Canonical,
		Errors:    res.Errors,
		Warnings:  res.Warnings,
	}, nil
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GenerateResponse, error) {
	source, _ := args["source"].(string)
	if source == "" {
		return GenerateResponse{}, fmt.Errorf("source must not be empty")
	}

	res := s.engine.Generate(source)
	if res.Workflow != nil {
		if name, ok := args["name"].(string); ok && name != "" {
			res.Workflow.Name = name
		}
	}
	return GenerateResponse{
		Success:  res.Success(),
		Workflow: res.Workflow,
		Report:   res.Report,
		Errors:   res.Compile.Errors,
	}, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (rules.Report, error) {
	text, _ := args["workflow"].(string)
	w, err := workflow.DecodeJSON([]byte(text))
	if err != nil {
		return rules.Report{}, fmt.Errorf("invalid workflow document: %w", err)
	}

	report := s.engine.Validate(w, nil)
	return *report, nil
}
