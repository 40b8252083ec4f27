package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/svnplot/internal/aggregate"
	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/internal/logdb"
	"github.com/huangsam/svnplot/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   *logdb.Store
	querier *aggregate.Querier
}

// filterFrom overlays request arguments on the configured filter.
func (h *toolHandler) filterFrom(request mcp.CallToolRequest) aggregate.Filter {
	f := aggregate.Filter{PathPrefix: h.baseCfg.PathFilter, Author: h.baseCfg.Author}
	if p := request.GetString("path_prefix", ""); p != "" {
		f.PathPrefix = schema.NormalizePrefix(p)
	}
	if a := request.GetString("author", ""); a != "" {
		name := schema.AuthorName(a)
		f.Author = &name
	}
	return f
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetAggregate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agg := schema.Aggregate(request.GetString("aggregate", ""))
	if _, ok := schema.ValidAggregates[agg]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown aggregate '%s'", agg)), nil
	}

	params := aggregate.Params{Depth: h.baseCfg.Depth, MaxAuthors: h.baseCfg.MaxAuthors}
	if d := request.GetInt("depth", -1); d >= 0 {
		params.Depth = d
	}
	if m := request.GetInt("max_authors", 0); m > 0 {
		params.MaxAuthors = m
	}

	data, err := h.querier.Compute(ctx, agg, h.filterFrom(request), params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("aggregate failed: %v", err)), nil
	}
	return jsonResult(data)
}

func (h *toolHandler) handleListAuthors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := h.filterFrom(request)
	f.Author = nil
	authors, err := h.querier.Authors(ctx, f, request.GetInt("limit", 0))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing authors failed: %v", err)), nil
	}
	return jsonResult(authors)
}

func (h *toolHandler) handleGetStoreStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.store.GetStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status failed: %v", err)), nil
	}
	return jsonResult(status)
}
