package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/skinlog/pkg/skincare"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Check an ingredient list against a skin condition",
	Long: `Parse an ingredient list (free text or OCR output), recognise known ingredients and print advice.
Nothing is stored; use "products add" to keep the result.`,
	Example: `  skinlog analyze --ingredients "Ingredients: Aqua, Fragrance, Niacinamide" --condition sensitive
  ocr label.png | skinlog analyze --ingredients - --prediction "Acne" --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		analysis := skincare.Analyze(text, dict, condition)

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(analysis)
		}

		names := make([]string, 0, len(analysis.Recognized))
		for _, r := range analysis.Recognized {
			names = append(names, r.Ingredient.Name)
		}
		fmt.Printf("Condition:    %s\n", analysis.Verdict.Condition)
		fmt.Printf("Assessment:   %s\n", analysis.Verdict.Assessment)
		fmt.Printf("Recognized:   %s\n", joinOrDash(names))
		fmt.Printf("Unrecognized: %s\n", joinOrDash(analysis.Unrecognized))
		printVerdict(os.Stdout, analysis.Verdict)
		return nil
	},
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func initAnalyzeCmd() {
	analyzeCmd.Flags().String("ingredients", "", "Ingredient list, or - to read it from stdin (required)")
	analyzeCmd.MarkFlagRequired("ingredients")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the full analysis as JSON")
	addConditionFlags(analyzeCmd)
}
