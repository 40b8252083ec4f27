// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"strings"

	"github.com/huangsam/svnplot/internal/aggregate"
	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/internal/logdb"
	"github.com/huangsam/svnplot/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names exposed by the server.
const (
	AggregateTool   = "get_aggregate"
	AuthorsTool     = "list_authors"
	StoreStatusTool = "get_store_status"
)

func aggregateNames() []string {
	names := make([]string, len(schema.AllAggregates))
	for i, a := range schema.AllAggregates {
		names[i] = string(a)
	}
	return names
}

// NewMCPServer initializes and configures the svnplot MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store *logdb.Store) *server.MCPServer {
	s := server.NewMCPServer(
		"SVN Log Statistics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
		querier: aggregate.NewQuerier(store, baseCfg.Location),
	}

	s.AddTool(mcp.NewTool(AggregateTool,
		mcp.WithDescription("Compute one statistic over the converted SVN log."),
		mcp.WithString("aggregate",
			mcp.Description("Aggregate to compute: "+strings.Join(aggregateNames(), ", ")+"."),
			mcp.Enum(aggregateNames()...),
			mcp.Required()),
		mcp.WithString("path_prefix", mcp.Description("Only count paths at or below this repository path.")),
		mcp.WithString("author", mcp.Description("Only count revisions committed by this author. Use \"unknown\" for revisions without an author.")),
		mcp.WithNumber("depth", mcp.Description("Directory depth for the dirs aggregate.")),
		mcp.WithNumber("max_authors", mcp.Description("Number of authors for per-author aggregates.")),
	), h.handleGetAggregate)

	s.AddTool(mcp.NewTool(AuthorsTool,
		mcp.WithDescription("List authors ordered by number of commits."),
		mcp.WithString("path_prefix", mcp.Description("Only count revisions touching this repository path.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of authors returned.")),
	), h.handleListAuthors)

	s.AddTool(mcp.NewTool(StoreStatusTool,
		mcp.WithDescription("Report the backend, schema version and row counts of the log store."),
	), h.handleGetStoreStatus)

	return s
}

// StartMCPServer starts the svnplot MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store *logdb.Store) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
