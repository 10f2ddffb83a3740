package mcp

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/skinlog/pkg/metrics"
	"github.com/unowned-ai/skinlog/pkg/skincare"
)

// Toolbox carries everything the tool handlers need.
type Toolbox struct {
	DB         *sql.DB
	Dictionary *skincare.Database
	Conditions skincare.ConditionMapper
	Trend      skincare.TrendComparator
	Metrics    metrics.Recorder
}

func (tb *Toolbox) recorder() metrics.Recorder {
	if tb.Metrics == nil {
		return metrics.Nop{}
	}
	return tb.Metrics
}

// RegisterAllTools registers every skinlog tool on s.
func RegisterAllTools(s *server.MCPServer, tb *Toolbox) {
	RegisterPingTool(s)
	RegisterAnalyzeIngredientsTool(s, tb)
	RegisterGetRecommendationsTool(s, tb)
	RegisterListJournalsTool(s, tb)
	RegisterRecordEntryTool(s, tb)
	RegisterListEntriesTool(s, tb)
	RegisterDeleteEntryTool(s, tb)
	RegisterCompareTrendTool(s, tb)
	RegisterAddProductTool(s, tb)
	RegisterListProductsTool(s, tb)
	RegisterGetProductTool(s, tb)
	RegisterDeleteProductTool(s, tb)
	RegisterReanalyzeProductsTool(s, tb)
	RegisterSearchProductsTool(s, tb)
}

// ToolNames lists the tools RegisterAllTools registers.
var ToolNames = []string{
	"ping", "analyze_ingredients", "get_recommendations", "list_journals",
	"record_entry", "list_entries", "delete_entry", "compare_trend",
	"add_product", "list_products", "get_product", "delete_product",
	"reanalyze_products", "search_products",
}

func jsonResult(v any, what string) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize %s to JSON: %v", what, err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func stringArg(request mcp.CallToolRequest, name string) string {
	s, _ := request.Params.Arguments[name].(string)
	return strings.TrimSpace(s)
}

func uuidArg(request mcp.CallToolRequest, name string) (uuid.UUID, *mcp.CallToolResult) {
	raw := stringArg(request, name)
	if raw == "" {
		return uuid.Nil, mcp.NewToolResultError(fmt.Sprintf("'%s' parameter is required.", name))
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError(fmt.Sprintf("'%s' is not a valid ID: %v", name, err))
	}
	return id, nil
}

// conditionArg reads the skin condition from either an explicit 'condition'
// or a classifier 'prediction' mapped through the toolbox's rules. Neither
// means Normal.
func (tb *Toolbox) conditionArg(request mcp.CallToolRequest) (skincare.Condition, *mcp.CallToolResult) {
	if raw := stringArg(request, "condition"); raw != "" {
		c, err := skincare.ParseCondition(raw)
		if err != nil {
			return "", mcp.NewToolResultError(fmt.Sprintf("%v. Valid conditions: %s", err, conditionList()))
		}
		return c, nil
	}
	if prediction := stringArg(request, "prediction"); prediction != "" {
		return tb.Conditions.Map(prediction), nil
	}
	return skincare.Normal, nil
}

func conditionList() string {
	names := make([]string, 0, len(skincare.AllConditions))
	for _, c := range skincare.AllConditions {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
