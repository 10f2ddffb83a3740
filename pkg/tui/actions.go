package tui

import (
	"context"
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/unowned-ai/skinlog/pkg/journal"
	"github.com/unowned-ai/skinlog/pkg/skincare"
)

// List journals from the database and return tea data
func listJournals(db *sql.DB) tea.Cmd {
	return func() tea.Msg {
		journals, err := journal.ListJournals(context.Background(), db, false)
		if err != nil {
			return err
		}
		return journals
	}
}

type entriesMsg struct {
	journalID uuid.UUID
	entries   []journal.Entry
	trend     journal.TrendResult
}

// List a journal's entries together with its current trend
func listEntries(db *sql.DB, journalID uuid.UUID, tc skincare.TrendComparator) tea.Cmd {
	return func() tea.Msg {
		entries, err := journal.ListEntries(context.Background(), db, journalID, false)
		if err != nil {
			return err
		}
		trend, err := journal.CompareLatest(context.Background(), db, journalID, tc)
		if err != nil {
			return err
		}
		return entriesMsg{journalID: journalID, entries: entries, trend: trend}
	}
}

type entryDetailsMsg journal.Entry

func getEntryDetails(db *sql.DB, entryID uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		entry, err := journal.GetEntry(context.Background(), db, entryID)
		if err != nil {
			return err
		}
		return entryDetailsMsg(entry)
	}
}

func listProducts(db *sql.DB) tea.Cmd {
	return func() tea.Msg {
		products, err := journal.ListProducts(context.Background(), db)
		if err != nil {
			return err
		}
		if products == nil {
			products = []journal.Product{}
		}
		return products
	}
}

type productDetailsMsg journal.Product

// Products in the list carry no ingredients; load them for the detail pane
func getProductDetails(db *sql.DB, productID uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		product, err := journal.GetProduct(context.Background(), db, productID)
		if err != nil {
			return err
		}
		return productDetailsMsg(product)
	}
}

// Get database name and file path
func getDbPragmaList(db *sql.DB) (string, string) {
	var name, file string
	err := db.QueryRow(`PRAGMA database_list`).Scan(new(int), &name, &file)
	if err != nil {
		return name, file
	}
	return name, file
}
