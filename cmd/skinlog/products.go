package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/unowned-ai/skinlog/pkg/journal"
	"github.com/unowned-ai/skinlog/pkg/skincare"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage analysed products",
	Long:  `Save products with their ingredient analysis, re-run the analysis when your skin changes, and search products by ingredient.`,
}

var addProductCmd = &cobra.Command{
	Use:   "add",
	Short: "Analyse and save a product",
	Example: `  skinlog products add --name "Night Cream" --ingredients "Aqua, Retinol, Shea Butter" --condition dry
  ocr label.png | skinlog products add --name "Cleanser" --ingredients - --prediction Acne`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		condition, err := conditionFromFlags(cmd)
		if err != nil {
			return err
		}
		text, err := ingredientText(cmd)
		if err != nil {
			return err
		}

		dict, err := openDictionary()
		if err != nil {
			return err
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		product, err := journal.CreateProduct(cmd.Context(), dbConn, dict, name, text, condition)
		if err != nil {
			return fmt.Errorf("failed to add product: %w", err)
		}

		printProduct(product, dict)
		return nil
	},
}

var getProductCmd = &cobra.Command{
	Use:   "get [product-id]",
	Short: "Show a product with its advice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		productID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid product ID: %w", err)
		}

		dict, err := openDictionary()
		if err != nil {
			return err
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		product, err := journal.GetProduct(cmd.Context(), dbConn, productID)
		if errors.Is(err, journal.ErrProductNotFound) {
			return fmt.Errorf("product not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to get product: %w", err)
		}

		printProduct(product, dict)
		return nil
	},
}

var listProductsCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved products",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		products, err := journal.ListProducts(cmd.Context(), dbConn)
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}

		if len(products) == 0 {
			fmt.Println("No products found.")
			return nil
		}

		fmt.Println("Products:")
		fmt.Println("ID | Name | Condition | Assessment | Updated At")
		fmt.Println("------------------------------------------------------------")
		for _, p := range products {
			fmt.Printf("%s | %s | %s | %s | %s\n", p.ID, p.Name, p.Condition, p.Assessment, formatTimestamp(p.UpdatedAt))
		}
		return nil
	},
}

var deleteProductCmd = &cobra.Command{
	Use:   "delete [product-id]",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		productID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid product ID: %w", err)
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		err = journal.DeleteProduct(cmd.Context(), dbConn, productID)
		if errors.Is(err, journal.ErrProductNotFound) {
			return fmt.Errorf("product not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}

		fmt.Printf("Product %s deleted.\n", args[0])
		return nil
	},
}

var reanalyzeProductsCmd = &cobra.Command{
	Use:   "reanalyze",
	Short: "Re-run the analysis of every product for a skin condition",
	RunE: func(cmd *cobra.Command, args []string) error {
		condition, err := conditionFromFlags(cmd)
		if err != nil {
			return err
		}

		dict, err := openDictionary()
		if err != nil {
			return err
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		n, err := journal.ReanalyzeProducts(cmd.Context(), dbConn, dict, condition)
		if err != nil {
			return fmt.Errorf("failed to reanalyze products: %w", err)
		}

		fmt.Printf("Reanalyzed %d products for %s skin.\n", n, condition)
		return nil
	},
}

var searchProductsCmd = &cobra.Command{
	Use:   "search [ingredient]...",
	Short: "Find products containing any of the given ingredients",
	Long:  `Find saved products containing any of the given ingredients or their aliases. Products matching more ingredients come first.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var names []string
		for _, arg := range args {
			names = append(names, splitList(arg)...)
		}

		dict, err := openDictionary()
		if err != nil {
			return err
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		results, err := journal.SearchProductsByIngredient(cmd.Context(), dbConn, dict, names)
		if err != nil {
			return fmt.Errorf("failed to search products: %w", err)
		}

		if len(results) == 0 {
			fmt.Printf("No products contain %s.\n", strings.Join(names, ", "))
			return nil
		}

		fmt.Println("Matching products:")
		fmt.Println("ID | Name | Matches | Assessment")
		fmt.Println("------------------------------------------------------------")
		for _, r := range results {
			fmt.Printf("%s | %s | %d | %s\n", r.ID, r.Name, r.MatchCount, r.Assessment)
		}
		return nil
	},
}

func addConditionFlags(cmd *cobra.Command) {
	cmd.Flags().String("condition", "", "Skin condition: Acne-Prone, Dry, Oily, Sensitive or Normal")
	cmd.Flags().String("prediction", "", "Classifier output mapped to a condition, e.g. Acne")
	cmd.MarkFlagsMutuallyExclusive("condition", "prediction")
}

func conditionFromFlags(cmd *cobra.Command) (skincare.Condition, error) {
	condition, _ := cmd.Flags().GetString("condition")
	prediction, _ := cmd.Flags().GetString("prediction")
	return resolveCondition(condition, prediction)
}

// ingredientText reads --ingredients, where "-" means stdin.
func ingredientText(cmd *cobra.Command) (string, error) {
	text, _ := cmd.Flags().GetString("ingredients")
	if text != "-" {
		return text, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read ingredients from stdin: %w", err)
	}
	return string(data), nil
}

func initProductsCmd() {
	addProductCmd.Flags().String("name", "", "Product name (required)")
	addProductCmd.Flags().String("ingredients", "", "Ingredient list, or - to read it from stdin (required)")
	addProductCmd.MarkFlagRequired("name")
	addProductCmd.MarkFlagRequired("ingredients")
	addConditionFlags(addProductCmd)

	addConditionFlags(reanalyzeProductsCmd)

	productsCmd.AddCommand(
		addProductCmd,
		getProductCmd,
		listProductsCmd,
		deleteProductCmd,
		reanalyzeProductsCmd,
		searchProductsCmd,
	)
}

func printProduct(p journal.Product, dict *skincare.Database) {
	fmt.Println("Product Details:")
	fmt.Printf("ID:          %s\n", p.ID)
	fmt.Printf("Name:        %s\n", p.Name)
	fmt.Printf("Condition:   %s\n", p.Condition)
	fmt.Printf("Assessment:  %s\n", p.Assessment)
	fmt.Printf("Updated At:  %s\n", formatTimestamp(p.UpdatedAt))

	if len(p.Ingredients) > 0 {
		names := make([]string, 0, len(p.Ingredients))
		for _, ing := range p.Ingredients {
			name := ing.IngredientKey
			if rec, ok := dict.Get(ing.IngredientKey); ok {
				name = rec.Name
			}
			names = append(names, name)
		}
		fmt.Printf("Recognized:  %s\n", strings.Join(names, ", "))
	}

	printVerdict(os.Stdout, p.Advice)
}

func printVerdict(w io.Writer, v skincare.Verdict) {
	fmt.Fprintln(w, "\nAdvice:")
	fmt.Fprintln(w, "------------------------------------------------------------")
	for _, note := range v.PositiveNotes {
		fmt.Fprintf(w, "+ %s\n", note)
	}
	for _, note := range v.CautionaryNotes {
		fmt.Fprintf(w, "! %s\n", note)
	}
	fmt.Fprintln(w, "------------------------------------------------------------")
}
