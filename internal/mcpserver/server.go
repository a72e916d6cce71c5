// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the processed stories and datasets via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/vedacontent/internal/apperr"
	"github.com/starford/vedacontent/internal/catalog"
	"github.com/starford/vedacontent/internal/contentservice"
	"github.com/starford/vedacontent/internal/models"
)

// MarkersURI is the resource URI of MarkerContract.
const MarkersURI = "vedacontent://markers"

const defaultSearchLimit = 20

// Server wraps the MCP server with content tools.
type Server struct {
	mcp *server.MCPServer
	svc *contentservice.Service
}

// New creates a new MCP server with all content tools registered.
func New(svc *contentservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"vedacontent",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_stories",
		mcp.WithDescription("List every story with its processed front matter."),
		mcp.WithBoolean("full", mcp.Description("Include the MDX body of each story")),
	), s.listCollection(models.Stories))

	s.mcp.AddTool(mcp.NewTool("list_datasets",
		mcp.WithDescription("List every dataset in the flattened dataset-list shape "+
			"(id, slug and layers always present)."),
		mcp.WithBoolean("full", mcp.Description("Include the MDX body of each dataset")),
	), s.listDatasets)

	s.mcp.AddTool(mcp.NewTool("read_story",
		mcp.WithDescription("Read one story with its processed front matter and body."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("File stem of the story")),
	), s.readItem(models.Stories))

	s.mcp.AddTool(mcp.NewTool("read_dataset",
		mcp.WithDescription("Read one dataset with its processed front matter and body."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("File stem of the dataset")),
	), s.readItem(models.Datasets))

	s.mcp.AddTool(mcp.NewTool("search_content",
		mcp.WithDescription("Full-text search over titles, bodies and front-matter values of stories and datasets."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	), s.searchContent)

	s.mcp.AddTool(mcp.NewTool("list_taxonomies",
		mcp.WithDescription("List taxonomy values with usage counts."),
		mcp.WithString("collection", mcp.Description("stories or datasets; empty for both")),
	), s.listTaxonomies)

	s.mcp.AddTool(mcp.NewTool("get_marker_contract",
		mcp.WithDescription("Returns the front-matter marker contract. "+
			"Call this to understand ::markdown, ::js, layers and taxonomy fields."),
	), s.getMarkerContract)

	s.mcp.AddResource(
		mcp.NewResource(MarkersURI, "Content Marker Contract",
			mcp.WithResourceDescription("Front-matter markers and conventions of stories and datasets."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMarkersResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listCollection(c models.Collection) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items, err := s.svc.List(ctx, c, req.GetBool("full", false))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(items)
	}
}

func (s *Server) listDatasets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.svc.DatasetsList(ctx, req.GetBool("full", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(list)
}

func (s *Server) readItem(c models.Collection) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		slug, err := req.RequireString("slug")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		item, err := s.svc.Get(ctx, c, slug)
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s/%s", c, slug)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(item)
	}
}

func (s *Server) searchContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	results, err := s.svc.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) listTaxonomies(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c := models.Collection(req.GetString("collection", ""))
	values, err := s.svc.Taxonomies(ctx, c)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if values == nil {
		values = []catalog.TaxonomyCount{}
	}
	return jsonResult(values)
}

func (s *Server) getMarkerContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(MarkerContract), nil
}

func (s *Server) readMarkersResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      MarkersURI,
			MIMEType: "text/markdown",
			Text:     MarkerContract,
		},
	}, nil
}
