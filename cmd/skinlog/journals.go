package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/unowned-ai/skinlog/pkg/journal"
)

var activeOnly bool

var journalsCmd = &cobra.Command{
	Use:   "journals",
	Short: "Manage skin areas",
	Long:  `Create, list, update, and delete journals. Each journal tracks one skin area such as the face or the back.`,
}

var createJournalCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new journal",
	Long:  `Create a new journal with a name and optional description.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")

		if name == "" {
			return errors.New("journal name is required")
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		j, err := journal.CreateJournal(cmd.Context(), dbConn, name, description)
		if errors.Is(err, journal.ErrJournalExists) {
			return fmt.Errorf("journal already exists: %s", name)
		}
		if err != nil {
			return fmt.Errorf("failed to create journal: %w", err)
		}

		printJournal(j)
		return nil
	},
}

var getJournalCmd = &cobra.Command{
	Use:   "get [journal-id-or-name]",
	Short: "Get a journal by ID or name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		j, err := findJournal(cmd, dbConn, args[0])
		if err != nil {
			return err
		}

		printJournal(j)
		return nil
	},
}

var listJournalsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all journals",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		journals, err := journal.ListJournals(cmd.Context(), dbConn, activeOnly)
		if err != nil {
			return fmt.Errorf("failed to list journals: %w", err)
		}

		if len(journals) == 0 {
			fmt.Println("No journals found.")
			return nil
		}

		fmt.Println("Journals:")
		fmt.Println("ID | Name | Description | Active | Created At | Updated At")
		fmt.Println("------------------------------------------------------------")
		for _, j := range journals {
			fmt.Printf("%s | %s | %s | %t | %s | %s\n",
				j.ID, j.Name, j.Description, j.Active, formatTimestamp(j.CreatedAt), formatTimestamp(j.UpdatedAt))
		}
		return nil
	},
}

var updateJournalCmd = &cobra.Command{
	Use:   "update [journal-id-or-name]",
	Short: "Update a journal",
	Long:  `Update a journal's name, description, or active status. Unset flags keep the current value.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		current, err := findJournal(cmd, dbConn, args[0])
		if err != nil {
			return err
		}

		name, description, active := current.Name, current.Description, current.Active
		if cmd.Flags().Changed("name") {
			name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("description") {
			description, _ = cmd.Flags().GetString("description")
		}
		if cmd.Flags().Changed("active") {
			active, _ = cmd.Flags().GetBool("active")
		}

		j, err := journal.UpdateJournal(cmd.Context(), dbConn, current.ID, name, description, active)
		if errors.Is(err, journal.ErrJournalExists) {
			return fmt.Errorf("journal already exists: %s", name)
		}
		if err != nil {
			return fmt.Errorf("failed to update journal: %w", err)
		}

		fmt.Println("Journal updated successfully!")
		printJournal(j)
		return nil
	},
}

var deleteJournalCmd = &cobra.Command{
	Use:   "delete [journal-id-or-name]",
	Short: "Delete a journal and all its entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		j, err := findJournal(cmd, dbConn, args[0])
		if err != nil {
			return err
		}

		if err := journal.DeleteJournal(cmd.Context(), dbConn, j.ID); err != nil {
			return fmt.Errorf("failed to delete journal: %w", err)
		}

		fmt.Printf("Journal %s (%s) deleted.\n", j.Name, j.ID)
		return nil
	},
}

var cleanJournalsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Permanently delete inactive journals",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		count, err := journal.DeleteInactiveJournals(cmd.Context(), dbConn)
		if err != nil {
			return fmt.Errorf("failed to clean inactive journals: %w", err)
		}

		fmt.Printf("Permanently deleted %d inactive journals.\n", count)
		return nil
	},
}

func initJournalsCmd() {
	createJournalCmd.Flags().String("name", "", "Name of the journal, e.g. face (required)")
	createJournalCmd.Flags().String("description", "", "Description of the journal")
	createJournalCmd.MarkFlagRequired("name")

	listJournalsCmd.Flags().BoolVar(&activeOnly, "active-only", false, "List only active journals")

	updateJournalCmd.Flags().String("name", "", "New name for the journal")
	updateJournalCmd.Flags().String("description", "", "New description for the journal")
	updateJournalCmd.Flags().Bool("active", true, "Set the journal active or inactive")

	journalsCmd.AddCommand(
		createJournalCmd,
		getJournalCmd,
		listJournalsCmd,
		updateJournalCmd,
		deleteJournalCmd,
		cleanJournalsCmd,
	)
}

// findJournal accepts either a journal ID or a journal name.
func findJournal(cmd *cobra.Command, dbConn *sql.DB, ref string) (journal.Journal, error) {
	var (
		j   journal.Journal
		err error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		j, err = journal.GetJournal(cmd.Context(), dbConn, id)
	} else {
		j, err = journal.GetJournalByName(cmd.Context(), dbConn, ref)
	}
	if errors.Is(err, journal.ErrJournalNotFound) {
		return journal.Journal{}, fmt.Errorf("journal not found: %s", ref)
	}
	if err != nil {
		return journal.Journal{}, fmt.Errorf("failed to get journal: %w", err)
	}
	return j, nil
}

func printJournal(j journal.Journal) {
	fmt.Println("Journal Details:")
	fmt.Printf("ID:          %s\n", j.ID)
	fmt.Printf("Name:        %s\n", j.Name)
	fmt.Printf("Description: %s\n", j.Description)
	fmt.Printf("Active:      %t\n", j.Active)
	fmt.Printf("Created At:  %s\n", formatTimestamp(j.CreatedAt))
	fmt.Printf("Updated At:  %s\n", formatTimestamp(j.UpdatedAt))
}
