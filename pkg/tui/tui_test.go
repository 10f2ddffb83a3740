package tui

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/unowned-ai/skinlog/pkg/db"
	"github.com/unowned-ai/skinlog/pkg/journal"
	"github.com/unowned-ai/skinlog/pkg/skincare"
)

func setupTestModel(t *testing.T) (model, *sql.DB) {
	t.Helper()

	testDB, err := db.OpenDBConnection(":memory:", true, "NORMAL")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { testDB.Close() })

	if err := db.InitializeSchema(testDB, db.TargetSchemaVersion); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	m := initModel(testDB, Options{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	return updated.(model), testDB
}

// apply feeds msg to m and runs any resulting command once, feeding its
// message back.
func apply(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	updated, cmd := m.Update(msg)
	m = updated.(model)
	if cmd != nil {
		if next := cmd(); next != nil {
			if _, isTick := next.(interface{ Unix() int64 }); !isTick {
				updated, _ = m.Update(next)
				m = updated.(model)
			}
		}
	}
	return m
}

// typeText skips the returned command, which is only the cursor blink.
func typeText(t *testing.T, m model, text string) model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(model)
}

func pressEnter(t *testing.T, m model) model {
	t.Helper()
	return apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestCreateJournalViaForm(t *testing.T) {
	m, _ := setupTestModel(t)

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if m.form.kind != journalForm {
		t.Fatalf("Expected journal form to open, got %v", m.form.kind)
	}

	m = pressEnter(t, m)
	if m.form.err == "" {
		t.Errorf("Expected an error for an empty name")
	}

	m = typeText(t, m, "face")
	m = pressEnter(t, m)
	m = typeText(t, m, "cheeks")
	m = pressEnter(t, m)

	if m.form.kind != noForm {
		t.Fatalf("Expected form to close after submit, error: %q", m.form.err)
	}
	if len(m.journals) != 1 || m.journals[0].Name != "face" || m.journals[0].Description != "cheeks" {
		t.Fatalf("Expected journal 'face' to be created, got %+v", m.journals)
	}
	if m.trend.Trend != skincare.NotEnoughData {
		t.Errorf("Expected %q for an empty journal, got %q", skincare.NotEnoughData, m.trend.Trend)
	}
}

func TestEntriesShowTrend(t *testing.T) {
	m, testDB := setupTestModel(t)
	ctx := context.Background()

	j, err := journal.CreateJournal(ctx, testDB, "back", "")
	if err != nil {
		t.Fatalf("CreateJournal failed: %v", err)
	}
	base := journal.Time(1700000000)
	for i, e := range []journal.NewEntry{
		{Label: "no issues", Confidence: 0.9, CapturedAt: base},
		{Label: "Acne", Confidence: 0.8, CapturedAt: base.AddDate(0, 0, 7)},
	} {
		if _, err := journal.CreateEntry(ctx, testDB, j.ID, e); err != nil {
			t.Fatalf("CreateEntry %d failed: %v", i, err)
		}
	}

	m = apply(t, m, listJournals(testDB)())
	if len(m.entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(m.entries))
	}
	if m.trend.Trend != skincare.Worsened {
		t.Errorf("Expected %q, got %q", skincare.Worsened, m.trend.Trend)
	}
	if !strings.Contains(m.View(), string(skincare.Worsened)) {
		t.Errorf("Expected the trend in the rendered view")
	}

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.columnFocus != 1 || m.currentEntry.ID != m.entries[0].ID {
		t.Fatalf("Expected first entry to be selected")
	}

	// Delete the oldest entry; the trend drops back to not enough data
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	if m.deleting != entryDelete {
		t.Fatalf("Expected entry delete confirmation")
	}
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = pressEnter(t, m)
	if len(m.entries) != 1 {
		t.Errorf("Expected 1 entry after delete, got %d", len(m.entries))
	}
	if m.trend.Trend != skincare.NotEnoughData {
		t.Errorf("Expected %q after delete, got %q", skincare.NotEnoughData, m.trend.Trend)
	}
}

func TestStaleEntriesIgnored(t *testing.T) {
	m, testDB := setupTestModel(t)
	if _, err := journal.CreateJournal(context.Background(), testDB, "face", ""); err != nil {
		t.Fatalf("CreateJournal failed: %v", err)
	}
	m = apply(t, m, listJournals(testDB)())

	m = apply(t, m, entriesMsg{
		journalID: uuid.New(),
		entries:   []journal.Entry{{Label: "Acne"}},
		trend:     journal.TrendResult{Trend: skincare.Worsened},
	})
	if len(m.entries) != 0 || m.trend.Trend != skincare.NotEnoughData {
		t.Errorf("Expected entries of another journal to be ignored, got %d entries and %q", len(m.entries), m.trend.Trend)
	}
}

func TestAddProductViaForm(t *testing.T) {
	m, testDB := setupTestModel(t)

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view != productsView {
		t.Fatalf("Expected products view")
	}

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = typeText(t, m, "Calm Cream")
	m = pressEnter(t, m)
	m = typeText(t, m, "Aqua, Glycerin, Parfum")
	m = pressEnter(t, m)
	m = typeText(t, m, "shiny")
	m = pressEnter(t, m)
	if m.form.kind != productForm || !strings.Contains(m.form.err, "unknown skin condition") {
		t.Fatalf("Expected unknown condition error, got %q", m.form.err)
	}

	m.form.inputs[2].SetValue("sensitive")
	m = pressEnter(t, m)
	if m.form.kind != noForm {
		t.Fatalf("Expected form to close, error: %q", m.form.err)
	}
	if m.currentProduct.Assessment != skincare.PotentiallyAvoid {
		t.Errorf("Expected %q, got %q", skincare.PotentiallyAvoid, m.currentProduct.Assessment)
	}
	if !strings.Contains(m.View(), "Fragrance: May be problematic for Sensitive.") {
		t.Errorf("Expected advice notes in the rendered view")
	}

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = pressEnter(t, m)
	if len(m.products) != 0 {
		t.Errorf("Expected product list to be empty, got %d", len(m.products))
	}
	products, err := journal.ListProducts(context.Background(), testDB)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("Expected product to be deleted from the database")
	}
}

func TestDeleteCancelledByDefault(t *testing.T) {
	m, testDB := setupTestModel(t)
	if _, err := journal.CreateJournal(context.Background(), testDB, "face", ""); err != nil {
		t.Fatalf("CreateJournal failed: %v", err)
	}
	m = apply(t, m, listJournals(testDB)())

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	m = pressEnter(t, m)
	if m.deleting != noDelete || len(m.journals) != 1 {
		t.Errorf("Expected deletion to be cancelled when 'No' stays selected")
	}
}
