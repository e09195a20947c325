package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/devo/internal/artifact"
	"github.com/kalambet/devo/internal/audit"
	"github.com/kalambet/devo/internal/devotional"
	"github.com/kalambet/devo/internal/validation"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Runner    BookRunner
	Auditor   *audit.Auditor
	Scripture ScriptureSource
	Grounding *artifact.GroundingStore // optional; enables grounding map resolution
}

// NewMCPServer creates an MCP server with all devo tools registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"devo",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("devo — assembles, validates, and audits multi-day devotional books."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("generate_devotional",
			mcp.WithDescription("Generate a validated multi-day devotional book for a topic."),
			mcp.WithString("topic", mcp.Description("Theme of the book"), mcp.Required()),
			mcp.WithNumber("num_days", mcp.Description("Number of days, 1-7 (default 6)")),
			mcp.WithString("output_mode", mcp.Description("personal or publish-ready (default publish-ready)")),
			mcp.WithString("series_id", mcp.Description("Existing series to add the volume to")),
		),
		mcpGenerate(deps),
	)

	s.AddTool(
		mcp.NewTool("audit_artifacts",
			mcp.WithDescription("Audit stored grounding maps and prayer trace maps for a set of days."),
			mcp.WithString("days", mcp.Description("JSON array of day objects"), mcp.Required()),
		),
		mcpAudit(deps),
	)

	s.AddTool(
		mcp.NewTool("validate_exposition",
			mcp.WithDescription("Run exposition checks (word count, voice, grounding map) on a text."),
			mcp.WithString("text", mcp.Description("Exposition text"), mcp.Required()),
			mcp.WithString("grounding_map_id", mcp.Description("Stored grounding map id to resolve")),
		),
		mcpValidateExposition(deps),
	)

	s.AddTool(
		mcp.NewTool("retrieve_scripture",
			mcp.WithDescription("Retrieve a verified scripture passage through the fallback chain."),
			mcp.WithString("reference", mcp.Description("Reference such as 'Romans 8:15' or '1 Corinthians 13:4-7'"), mcp.Required()),
			mcp.WithString("translation", mcp.Description("Translation code (default NASB)")),
		),
		mcpRetrieveScripture(deps),
	)

	return s
}

func mcpGenerate(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		topic, err := req.RequireString("topic")
		if err != nil {
			return mcpError("topic is required"), nil
		}
		numDays := req.GetInt("num_days", 6)
		mode := req.GetString("output_mode", "")
		seriesID := req.GetString("series_id", "")

		input, err := devotional.NewInput(topic, numDays, devotional.OutputMode(mode))
		if err != nil {
			return mcpError(err.Error()), nil
		}

		result, err := deps.Runner.Run(ctx, input, seriesID)
		if err != nil {
			return mcpError(fmt.Sprintf("pipeline failed: %v", err)), nil
		}

		out := map[string]any{
			"book_id":            result.Book.ID,
			"volume_id":          result.RegistryVolumeID,
			"days":               len(result.Book.Days),
			"validation_summary": result.Summary,
			"export_gate":        result.ExportGate,
		}
		b, err := json.Marshal(out)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpAudit(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("days")
		if err != nil {
			return mcpError("days is required"), nil
		}

		var days []devotional.Day
		if err := json.Unmarshal([]byte(raw), &days); err != nil {
			return mcpError(fmt.Sprintf("invalid days JSON: %v", err)), nil
		}

		results := deps.Auditor.Audit(days)
		b, err := json.Marshal(results)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpValidateExposition(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcpError("text is required"), nil
		}
		mapID := req.GetString("grounding_map_id", "")
		section := devotional.Exposition{Text: text, GroundingMapID: mapID}

		var gm *artifact.GroundingMap
		if mapID != "" && deps.Grounding != nil {
			gm, err = artifact.ResolveGroundingMap(section, deps.Grounding)
			if err != nil {
				return mcpError(fmt.Sprintf("resolving grounding map: %v", err)), nil
			}
		}

		assessments := validation.ValidateExposition(section, gm)

		b, err := json.Marshal(assessments)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal assessments: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpRetrieveScripture(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reference, err := req.RequireString("reference")
		if err != nil {
			return mcpError("reference is required"), nil
		}
		translation := req.GetString("translation", "NASB")

		result, alert, err := deps.Scripture.Retrieve(ctx, reference, translation, "")
		if err != nil {
			return mcpError(fmt.Sprintf("retrieval failed: %v", err)), nil
		}
		if alert != nil {
			b, err := json.Marshal(alert)
			if err != nil {
				return mcpError(fmt.Sprintf("failed to marshal alert: %v", err)), nil
			}
			return mcpError(string(b)), nil
		}

		b, err := json.Marshal(result)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
