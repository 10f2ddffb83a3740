//go:build tui

package main

import (
	"github.com/spf13/cobra"

	"github.com/unowned-ai/skinlog/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show terminal UI",
	Long:  `Display an interactive terminal UI for browsing journals, entries and products.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dict, err := openDictionary()
		if err != nil {
			return err
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return tui.ShowTUI(dbConn, tui.Options{
			Dictionary: dict,
			Trend:      currentConfig().TrendComparator(),
		})
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
