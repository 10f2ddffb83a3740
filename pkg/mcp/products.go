package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/skinlog/pkg/journal"
)

// RegisterAddProductTool registers the add_product tool.
func RegisterAddProductTool(s *server.MCPServer, tb *Toolbox) {
	tool := mcp.NewTool("add_product",
		mcp.WithDescription("Saves a product, analysing its ingredient list for a skin condition."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Product name.")),
		mcp.WithString("ingredients", mcp.Required(), mcp.Description("Ingredient list as printed on the package.")),
		mcp.WithString("condition", mcp.Description(conditionHelp)),
		mcp.WithString("prediction", mcp.Description(predictionHelp)),
	)
	s.AddTool(tool, tb.addProductHandler)
}

func (tb *Toolbox) addProductHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := stringArg(request, "name")
	if name == "" {
		return mcp.NewToolResultError("'name' parameter is required."), nil
	}
	text, ok := request.Params.Arguments["ingredients"].(string)
	if !ok {
		return mcp.NewToolResultError("'ingredients' parameter is required."), nil
	}
	condition, errResult := tb.conditionArg(request)
	if errResult != nil {
		return errResult, nil
	}

	product, err := journal.CreateProduct(ctx, tb.DB, tb.Dictionary, name, text, condition)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to add product '%s': %v", name, err)), nil
	}
	return jsonResult(product, "product")
}

// RegisterListProductsTool registers the list_products tool.
func RegisterListProductsTool(s *server.MCPServer, tb *Toolbox) {
	tool := mcp.NewTool("list_products",
		mcp.WithDescription("Lists saved products with their latest assessment."),
	)
	s.AddTool(tool, tb.listProductsHandler)
}

func (tb *Toolbox) listProductsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	products, err := journal.ListProducts(ctx, tb.DB)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list products: %v", err)), nil
	}
	if len(products) == 0 {
		return mcp.NewToolResultText("[]"), nil
	}
	return jsonResult(products, "products")
}

// RegisterGetProductTool registers the get_product tool.
func RegisterGetProductTool(s *server.MCPServer, tb *Toolbox) {
	tool := mcp.NewTool("get_product",
		mcp.WithDescription("Retrieves a product with its advice and recognized ingredients."),
		mcp.WithString("id", mcp.Required(), mcp.Description("ID of the product.")),
	)
	s.AddTool(tool, tb.getProductHandler)
}

func (tb *Toolbox) getProductHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := uuidArg(request, "id")
	if errResult != nil {
		return errResult, nil
	}
	product, err := journal.GetProduct(ctx, tb.DB, id)
	if err != nil {
		if errors.Is(err, journal.ErrProductNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Product '%s' not found.", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Error retrieving product '%s': %v", id, err)), nil
	}
	return jsonResult(product, "product")
}

// RegisterDeleteProductTool registers the delete_product tool.
func RegisterDeleteProductTool(s *server.MCPServer, tb *Toolbox) {
	tool := mcp.NewTool("delete_product",
		mcp.WithDescription("Deletes a saved product."),
		mcp.WithString("id", mcp.Required(), mcp.Description("ID of the product.")),
	)
	s.AddTool(tool, tb.deleteProductHandler)
}

func (tb *Toolbox) deleteProductHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := uuidArg(request, "id")
	if errResult != nil {
		return errResult, nil
	}
	if err := journal.DeleteProduct(ctx, tb.DB, id); err != nil {
		if errors.Is(err, journal.ErrProductNotFound) {
			return mcp.NewToolResultText(fmt.Sprintf("Product '%s' not found, nothing to delete.", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete product '%s': %v", id, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Product '%s' deleted successfully.", id)), nil
}

// RegisterReanalyzeProductsTool registers the reanalyze_products tool.
func RegisterReanalyzeProductsTool(s *server.MCPServer, tb *Toolbox) {
	tool := mcp.NewTool("reanalyze_products",
		mcp.WithDescription("Re-runs the analysis of every saved product for a skin condition, e.g. after the skin changed."),
		mcp.WithString("condition", mcp.Description(conditionHelp)),
		mcp.WithString("prediction", mcp.Description(predictionHelp)),
	)
	s.AddTool(tool, tb.reanalyzeProductsHandler)
}

func (tb *Toolbox) reanalyzeProductsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	condition, errResult := tb.conditionArg(request)
	if errResult != nil {
		return errResult, nil
	}
	n, err := journal.ReanalyzeProducts(ctx, tb.DB, tb.Dictionary, condition)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to reanalyze products: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Reanalyzed %d products for %s skin.", n, condition)), nil
}

// RegisterSearchProductsTool registers the search_products tool.
func RegisterSearchProductsTool(s *server.MCPServer, tb *Toolbox) {
	tool := mcp.NewTool("search_products",
		mcp.WithDescription("Finds saved products containing any of the given ingredients, best matches first."),
		mcp.WithString("ingredients", mcp.Required(), mcp.Description("Comma-separated ingredient names or aliases.")),
	)
	s.AddTool(tool, tb.searchProductsHandler)
}

func (tb *Toolbox) searchProductsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := splitList(stringArg(request, "ingredients"))
	if len(names) == 0 {
		return mcp.NewToolResultError("'ingredients' parameter is required."), nil
	}
	results, err := journal.SearchProductsByIngredient(ctx, tb.DB, tb.Dictionary, names)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search products: %v", err)), nil
	}
	return jsonResult(results, "search results")
}
