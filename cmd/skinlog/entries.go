package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/unowned-ai/skinlog/pkg/journal"
	"github.com/unowned-ai/skinlog/pkg/skincare"
)

var (
	journalFlag        string
	includeDeletedFlag bool
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Manage skin classifier entries",
	Long:  `Record, list, and delete classifier results in a journal, and compare the latest two to see the trend.`,
}

var addEntryCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a classifier result",
	Long: `Record a classifier result in a journal. The journal is created when it does not exist yet.

Give either --label and --confidence, or --prediction with the description the
classifier produced, e.g. "Prediction: Acne - Confidence: 0.82".`,
	Example: `  skinlog entries add --journal face --label Acne --confidence 0.82
  skinlog entries add --journal back --prediction "Prediction: no issues - Confidence: 0.91" --notes "after holiday"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		label, _ := cmd.Flags().GetString("label")
		confidence, _ := cmd.Flags().GetFloat64("confidence")
		prediction, _ := cmd.Flags().GetString("prediction")
		notes, _ := cmd.Flags().GetString("notes")
		image, _ := cmd.Flags().GetString("image")
		at, _ := cmd.Flags().GetString("at")

		if prediction != "" {
			parsedLabel, parsedConfidence, ok := skincare.ParsePredictionDescription(prediction)
			if !ok {
				return fmt.Errorf("could not read a confidence from prediction %q", prediction)
			}
			label, confidence = parsedLabel, parsedConfidence
		} else if !cmd.Flags().Changed("confidence") {
			return errors.New("either --prediction or --label with --confidence is required")
		}
		if label == "" {
			return errors.New("entry label is required")
		}
		if err := journal.ValidateConfidence(confidence); err != nil {
			return err
		}

		var capturedAt time.Time
		if at != "" {
			t, err := time.Parse(time.RFC3339, at)
			if err != nil {
				return fmt.Errorf("invalid --at timestamp (want RFC3339): %w", err)
			}
			capturedAt = t
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		j, err := journal.EnsureJournal(cmd.Context(), dbConn, journalFlag)
		if err != nil {
			return fmt.Errorf("failed to find or create journal %s: %w", journalFlag, err)
		}

		entry, err := journal.CreateEntry(cmd.Context(), dbConn, j.ID, journal.NewEntry{
			Label:      label,
			Confidence: confidence,
			Notes:      notes,
			ImageFile:  image,
			CapturedAt: capturedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to record entry: %w", err)
		}

		printEntry(entry)
		return nil
	},
}

var getEntryCmd = &cobra.Command{
	Use:   "get [entry-id]",
	Short: "Get an entry by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entryIDStr := args[0]
		entryID, err := uuid.Parse(entryIDStr)
		if err != nil {
			return fmt.Errorf("invalid entry ID: %w", err)
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		entry, err := journal.GetEntry(cmd.Context(), dbConn, entryID)
		if errors.Is(err, journal.ErrEntryNotFound) {
			return fmt.Errorf("entry not found: %s", entryIDStr)
		}
		if err != nil {
			return fmt.Errorf("failed to get entry: %w", err)
		}

		printEntry(entry)
		return nil
	},
}

var listEntriesCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries in a journal, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		j, err := findJournal(cmd, dbConn, journalFlag)
		if err != nil {
			return err
		}

		entries, err := journal.ListEntries(cmd.Context(), dbConn, j.ID, includeDeletedFlag)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No entries found in this journal.")
			return nil
		}

		fmt.Println("Entries:")
		fmt.Println("ID | Captured At | Label | Confidence | Deleted | Notes")
		fmt.Println("------------------------------------------------------------")
		for _, e := range entries {
			fmt.Printf("%s | %s | %s | %.2f | %t | %s\n",
				e.ID, formatTimestamp(e.CapturedAt), e.Label, e.Confidence, e.Deleted, e.Notes)
		}
		return nil
	},
}

var deleteEntryCmd = &cobra.Command{
	Use:   "delete [entry-id]",
	Short: "Soft delete an entry",
	Long:  `Mark an entry as deleted. It no longer counts towards the trend and only appears in listings with --include-deleted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entryIDStr := args[0]
		entryID, err := uuid.Parse(entryIDStr)
		if err != nil {
			return fmt.Errorf("invalid entry ID: %w", err)
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		err = journal.DeleteEntry(cmd.Context(), dbConn, entryID)
		if errors.Is(err, journal.ErrEntryNotFound) {
			return fmt.Errorf("entry not found: %s", entryIDStr)
		}
		if err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		fmt.Printf("Entry %s marked as deleted.\n", entryIDStr)
		return nil
	},
}

var cleanEntriesCmd = &cobra.Command{
	Use:   "clean",
	Short: "Permanently delete soft-deleted entries",
	Long:  `Permanently delete all entries that have been previously soft-deleted in a journal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		j, err := findJournal(cmd, dbConn, journalFlag)
		if err != nil {
			return err
		}

		count, err := journal.CleanDeletedEntries(cmd.Context(), dbConn, j.ID)
		if err != nil {
			return fmt.Errorf("failed to clean deleted entries: %w", err)
		}

		fmt.Printf("Permanently deleted %d entries from journal %s.\n", count, j.Name)
		return nil
	},
}

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Compare the two latest entries of a journal",
	Long:  `Reports whether the skin Improved, Worsened, Stayed the Same, or whether there is Not Enough Data yet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		j, err := findJournal(cmd, dbConn, journalFlag)
		if err != nil {
			return err
		}

		result, err := journal.CompareLatest(cmd.Context(), dbConn, j.ID, currentConfig().TrendComparator())
		if err != nil {
			return fmt.Errorf("failed to compare entries: %w", err)
		}

		fmt.Printf("Trend for %s: %s\n", j.Name, result.Trend)
		if result.Previous != nil && result.Latest != nil {
			fmt.Printf("Previous:   %s  %s\n", formatTimestamp(result.Previous.CapturedAt), result.Previous.Description())
			fmt.Printf("Latest:     %s  %s\n", formatTimestamp(result.Latest.CapturedAt), result.Latest.Description())
		}
		return nil
	},
}

func initEntriesCmd() {
	entriesCmd.PersistentFlags().StringVar(&journalFlag, "journal", "face", "Journal ID or name")

	addEntryCmd.Flags().String("label", "", "Classifier label, e.g. Acne or \"no issues\"")
	addEntryCmd.Flags().Float64("confidence", 0, "Classifier confidence between 0 and 1")
	addEntryCmd.Flags().String("prediction", "", "Classifier description, e.g. \"Prediction: Acne - Confidence: 0.82\"")
	addEntryCmd.Flags().String("notes", "", "Free-text notes")
	addEntryCmd.Flags().String("image", "", "Reference to the photo")
	addEntryCmd.Flags().String("at", "", "Capture time in RFC3339 (default: now)")
	addEntryCmd.MarkFlagsMutuallyExclusive("prediction", "label")

	listEntriesCmd.Flags().BoolVar(&includeDeletedFlag, "include-deleted", false, "Include soft-deleted entries in the listing")

	entriesCmd.AddCommand(
		addEntryCmd,
		getEntryCmd,
		listEntriesCmd,
		deleteEntryCmd,
		cleanEntriesCmd,
		trendCmd,
	)
}

func printEntry(entry journal.Entry) {
	fmt.Println("Entry Details:")
	fmt.Printf("ID:          %s\n", entry.ID)
	fmt.Printf("Journal ID:  %s\n", entry.JournalID)
	fmt.Printf("Prediction:  %s\n", entry.Description())
	fmt.Printf("Captured At: %s\n", formatTimestamp(entry.CapturedAt))
	if entry.ImageFile != "" {
		fmt.Printf("Image:       %s\n", entry.ImageFile)
	}
	fmt.Printf("Deleted:     %t\n", entry.Deleted)
	fmt.Printf("Created At:  %s\n", formatTimestamp(entry.CreatedAt))
	fmt.Printf("Updated At:  %s\n", formatTimestamp(entry.UpdatedAt))
	if entry.Notes != "" {
		fmt.Println("\nNotes:")
		fmt.Println("------------------------------------------------------------")
		fmt.Println(entry.Notes)
		fmt.Println("------------------------------------------------------------")
	}
}
