package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/skinlog/pkg/skincare"
)

var ingredientsCmd = &cobra.Command{
	Use:   "ingredients",
	Short: "Inspect the ingredient dictionary",
	Long:  `Inspect the ingredient dictionary used for analyses. Set ingredients.path in the config file to use your own YAML dictionary.`,
}

var listIngredientsCmd = &cobra.Command{
	Use:   "list",
	Short: "List known ingredients",
	RunE: func(cmd *cobra.Command, args []string) error {
		dict, err := openDictionary()
		if err != nil {
			return err
		}

		fmt.Println("Key | Name | Good For | Bad For")
		fmt.Println("------------------------------------------------------------")
		for _, rec := range dict.Records() {
			fmt.Printf("%s | %s | %s | %s\n", rec.Key, rec.Name, conditionsList(rec.GoodFor), conditionsList(rec.BadFor))
		}
		return nil
	},
}

var showIngredientCmd = &cobra.Command{
	Use:   "show [name-or-alias]",
	Short: "Show one ingredient",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dict, err := openDictionary()
		if err != nil {
			return err
		}

		name := strings.Join(args, " ")
		rec, ok := dict.Resolve(name)
		if !ok {
			return fmt.Errorf("unknown ingredient: %s", name)
		}

		fmt.Println("Ingredient Details:")
		fmt.Printf("Key:         %s\n", rec.Key)
		fmt.Printf("Name:        %s\n", rec.Name)
		fmt.Printf("Aliases:     %s\n", joinOrDash(rec.Aliases))
		fmt.Printf("Good For:    %s\n", conditionsList(rec.GoodFor))
		fmt.Printf("Bad For:     %s\n", conditionsList(rec.BadFor))
		if rec.Description != "" {
			fmt.Printf("Description: %s\n", rec.Description)
		}
		return nil
	},
}

func conditionsList(conditions []skincare.Condition) string {
	names := make([]string, 0, len(conditions))
	for _, c := range conditions {
		names = append(names, c.String())
	}
	return joinOrDash(names)
}

func initIngredientsCmd() {
	ingredientsCmd.AddCommand(listIngredientsCmd, showIngredientCmd)
}
