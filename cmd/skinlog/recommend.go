package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/skinlog/pkg/skincare"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Show skincare tips and ingredients to seek or avoid for a skin condition",
	RunE: func(cmd *cobra.Command, args []string) error {
		condition, err := conditionFromFlags(cmd)
		if err != nil {
			return err
		}

		dict, err := openDictionary()
		if err != nil {
			return err
		}

		fmt.Printf("Recommendations for %s skin\n", condition)
		var section skincare.RecommendationType
		for _, r := range skincare.Recommend(dict, condition) {
			if r.Type != section {
				section = r.Type
				fmt.Printf("\n%s:\n", section)
			}
			fmt.Printf("  - %s: %s\n", r.Title, r.Description)
		}
		return nil
	},
}

func initRecommendCmd() {
	addConditionFlags(recommendCmd)
}
