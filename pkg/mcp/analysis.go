package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/skinlog/pkg/skincare"
)

const conditionHelp = "Skin condition: Acne-Prone, Dry, Oily, Sensitive or Normal. Takes precedence over 'prediction'."
const predictionHelp = "Raw classifier output (e.g. 'Acne', 'no issues'); mapped to a skin condition when 'condition' is not given."

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong_skinlog' to check if the Skinlog MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_skinlog"), nil
}

// RegisterAnalyzeIngredientsTool registers the analyze_ingredients tool.
func RegisterAnalyzeIngredientsTool(s *server.MCPServer, tb *Toolbox) {
	tool := mcp.NewTool("analyze_ingredients",
		mcp.WithDescription("Parses an ingredient list (free text or OCR output), recognizes known ingredients and returns advice for a skin condition."),
		mcp.WithString("ingredients", mcp.Required(), mcp.Description("Ingredient list, e.g. 'Ingredients: Aqua, Glycerin, Parfum'.")),
		mcp.WithString("condition", mcp.Description(conditionHelp)),
		mcp.WithString("prediction", mcp.Description(predictionHelp)),
	)
	s.AddTool(tool, tb.analyzeIngredientsHandler)
}

func (tb *Toolbox) analyzeIngredientsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, ok := request.Params.Arguments["ingredients"].(string)
	if !ok {
		return mcp.NewToolResultError("'ingredients' parameter is required."), nil
	}
	condition, errResult := tb.conditionArg(request)
	if errResult != nil {
		return errResult, nil
	}

	analysis := skincare.Analyze(text, tb.Dictionary, condition)
	tb.recorder().RecordAnalysis(analysis)
	return jsonResult(analysis, "analysis")
}

// RegisterGetRecommendationsTool registers the get_recommendations tool.
func RegisterGetRecommendationsTool(s *server.MCPServer, tb *Toolbox) {
	tool := mcp.NewTool("get_recommendations",
		mcp.WithDescription("Lists general tips plus ingredients to look for and to avoid for a skin condition."),
		mcp.WithString("condition", mcp.Description(conditionHelp)),
		mcp.WithString("prediction", mcp.Description(predictionHelp)),
	)
	s.AddTool(tool, tb.getRecommendationsHandler)
}

func (tb *Toolbox) getRecommendationsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	condition, errResult := tb.conditionArg(request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(skincare.Recommend(tb.Dictionary, condition), "recommendations")
}
