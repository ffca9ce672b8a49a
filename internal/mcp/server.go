package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mediaportal/backend/internal/bulkedit"
	"mediaportal/backend/internal/services"
)

// Server exposes the bulk mutation workflow as MCP tools so agent clients
// can preview and execute bulk edits over the same engine the web UI uses.
type Server struct {
	mcpServer *server.MCPServer
	bulk      *services.BulkService
}

func NewServer(bulk *services.BulkService) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Media Portal",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		bulk: bulk,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"bulk_fields",
			mcp.WithDescription("List the metadata fields eligible for bulk editing, resolved from a reference asset"),
			mcp.WithString("asset_id", mcp.Required(), mcp.Description("The reference asset id")),
		),
		s.handleFields,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"bulk_preview",
			mcp.WithDescription("Preview a bulk metadata mutation and mint the token needed to execute it"),
			mcp.WithString("operation", mcp.Required(), mcp.Description("One of add, replace, clear")),
			mcp.WithString("field_key", mcp.Required(), mcp.Description("The field to mutate, or 'collection' for collection membership")),
			mcp.WithString("asset_ids", mcp.Required(), mcp.Description("Comma-separated target asset ids")),
			mcp.WithString("value", mcp.Description("Scalar value for single-valued fields")),
			mcp.WithString("values", mcp.Description("Comma-separated values for multiselect fields")),
			mcp.WithString("collection_ids", mcp.Description("Comma-separated collection ids for the collections field")),
		),
		s.handlePreview,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"bulk_execute",
			mcp.WithDescription("Execute a previously previewed bulk mutation by its token"),
			mcp.WithString("token", mcp.Required(), mcp.Description("The preview token returned by bulk_preview")),
		),
		s.handleExecute,
	)
}

func (s *Server) handleFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	assetID, ok := args["asset_id"].(string)
	if !ok || assetID == "" {
		return mcp.NewToolResultError("Missing required parameter: asset_id"), nil
	}

	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resolved := s.bulk.Fields(ctx, tenantID, assetID)
	jsonBytes, _ := json.Marshal(resolved)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handlePreview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	operation, _ := args["operation"].(string)
	fieldKey, _ := args["field_key"].(string)
	assetIDs := splitList(args["asset_ids"])
	if operation == "" || fieldKey == "" || len(assetIDs) == 0 {
		return mcp.NewToolResultError("Missing required parameters: operation, field_key, asset_ids"), nil
	}

	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	preview, token, err := s.bulk.Preview(ctx, tenantID, operation, fieldKey, valueFromArgs(operation, fieldKey, args), assetIDs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Preview failed: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(map[string]interface{}{
		"preview": preview,
		"token":   token,
	})
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleExecute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	token, ok := args["token"].(string)
	if !ok || token == "" {
		return mcp.NewToolResultError("Missing required parameter: token"), nil
	}

	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.bulk.Execute(ctx, tenantID, token)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Execute failed: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(result)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// valueFromArgs builds the mutation value from whichever payload argument
// the client supplied. clear takes no value.
func valueFromArgs(operation, fieldKey string, args map[string]interface{}) bulkedit.MutationValue {
	if operation == string(bulkedit.OperationClear) {
		return bulkedit.NoValue()
	}
	if fieldKey == bulkedit.CollectionsFieldKey {
		return bulkedit.IDsValue(splitList(args["collection_ids"]))
	}
	if values := splitList(args["values"]); len(values) > 0 {
		return bulkedit.ListValue(values)
	}
	scalar, _ := args["value"].(string)
	return bulkedit.ScalarValue(scalar)
}

func splitList(arg interface{}) []string {
	raw, _ := arg.(string)
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// tenantFromContext reads the tenant id the auth middleware injected. The
// MCP mount sits behind the same middleware as the REST API.
func tenantFromContext(ctx context.Context) (string, error) {
	tenantID, ok := ctx.Value("tenant_id").(string)
	if !ok || tenantID == "" {
		return "", fmt.Errorf("tenant not resolved; authenticate first")
	}
	return tenantID, nil
}

// MountHTTPHandlers registers the MCP transport on the mux.
func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	// Use SSE server for /mcp/sse and /mcp/message endpoints
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		// Direct POST for tool calls
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// SSE endpoints
	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
