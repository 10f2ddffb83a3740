package journal

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/unowned-ai/skinlog/pkg/skincare"
)

var testBase = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func setupTestDBWithJournal(t *testing.T) (*sql.DB, uuid.UUID) {
	t.Helper()

	testDB := setupTestDB(t)

	journal, err := CreateJournal(context.Background(), testDB, "Face", "Test journal for entries")
	if err != nil {
		t.Fatalf("Failed to create test journal: %v", err)
	}

	return testDB, journal.ID
}

func createTestEntry(t *testing.T, ctx context.Context, db *sql.DB, journalID uuid.UUID, label string, confidence float64) Entry {
	t.Helper()
	return createTestEntryAt(t, ctx, db, journalID, label, confidence, time.Time{})
}

func createTestEntryAt(t *testing.T, ctx context.Context, db *sql.DB, journalID uuid.UUID, label string, confidence float64, at time.Time) Entry {
	t.Helper()
	entry, err := CreateEntry(ctx, db, journalID, NewEntry{Label: label, Confidence: confidence, CapturedAt: at})
	if err != nil {
		t.Fatalf("CreateEntry failed in createTestEntry: %v", err)
	}
	return entry
}

func TestCreateEntry(t *testing.T) {
	testDB, journalID := setupTestDBWithJournal(t)
	defer testDB.Close()
	ctx := context.Background()

	captured := testBase.Add(90 * time.Minute)
	entry, err := CreateEntry(ctx, testDB, journalID, NewEntry{
		Label:      " Acne ",
		Confidence: 0.82,
		Notes:      "after gym",
		ImageFile:  "2024-05-01.jpg",
		CapturedAt: captured,
	})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	if entry.Label != "Acne" {
		t.Errorf("Expected label Acne, got %q", entry.Label)
	}
	if entry.Confidence != 0.82 {
		t.Errorf("Expected confidence 0.82, got %v", entry.Confidence)
	}
	if entry.Notes != "after gym" || entry.ImageFile != "2024-05-01.jpg" {
		t.Errorf("Notes or image file not stored: %+v", entry)
	}
	if entry.JournalID != journalID {
		t.Errorf("Expected journal ID %s, got %s", journalID, entry.JournalID)
	}
	if entry.Deleted {
		t.Errorf("Expected new entry not to be deleted")
	}
	if got := Time(entry.CapturedAt); got.Sub(captured).Abs() > time.Millisecond {
		t.Errorf("Expected captured time %v, got %v", captured, got)
	}
	if entry.Description() != "Prediction: Acne - Confidence: 0.82" {
		t.Errorf("Unexpected description %q", entry.Description())
	}

	t.Run("DefaultsCapturedAtToNow", func(t *testing.T) {
		before := time.Now().Add(-time.Second)
		e := createTestEntry(t, ctx, testDB, journalID, "no issues", 0.9)
		if Time(e.CapturedAt).Before(before) {
			t.Errorf("Expected captured_at to default to now, got %v", Time(e.CapturedAt))
		}
	})

	t.Run("ConfidenceBounds", func(t *testing.T) {
		for _, c := range []float64{0, 1} {
			if _, err := CreateEntry(ctx, testDB, journalID, NewEntry{Label: "Acne", Confidence: c}); err != nil {
				t.Errorf("Expected confidence %v to be accepted, got %v", c, err)
			}
		}
		for _, c := range []float64{-0.01, 1.01, 82, math.NaN(), math.Inf(1)} {
			_, err := CreateEntry(ctx, testDB, journalID, NewEntry{Label: "Acne", Confidence: c})
			if !errors.Is(err, ErrInvalidConfidence) {
				t.Errorf("Expected ErrInvalidConfidence for %v, got %v", c, err)
			}
		}
	})

	t.Run("EmptyLabel", func(t *testing.T) {
		_, err := CreateEntry(ctx, testDB, journalID, NewEntry{Label: "  ", Confidence: 0.5})
		if !errors.Is(err, ErrEmptyLabel) {
			t.Errorf("Expected ErrEmptyLabel, got %v", err)
		}
	})

	t.Run("UnknownJournal", func(t *testing.T) {
		_, err := CreateEntry(ctx, testDB, uuid.New(), NewEntry{Label: "Acne", Confidence: 0.5})
		if !errors.Is(err, ErrJournalNotFound) {
			t.Errorf("Expected ErrJournalNotFound, got %v", err)
		}
	})
}

func TestGetEntry(t *testing.T) {
	testDB, journalID := setupTestDBWithJournal(t)
	defer testDB.Close()
	ctx := context.Background()

	created := createTestEntry(t, ctx, testDB, journalID, "Acne", 0.4)
	retrieved, err := GetEntry(ctx, testDB, created.ID)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if retrieved != created {
		t.Errorf("Retrieved entry %+v doesn't match created %+v", retrieved, created)
	}

	if _, err := GetEntry(ctx, testDB, uuid.New()); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound, got %v", err)
	}
}

func TestListEntries(t *testing.T) {
	testDB, journalID := setupTestDBWithJournal(t)
	defer testDB.Close()
	ctx := context.Background()

	// Inserted out of capture order on purpose.
	third := createTestEntryAt(t, ctx, testDB, journalID, "Acne", 0.3, testBase.AddDate(0, 0, 2))
	first := createTestEntryAt(t, ctx, testDB, journalID, "Acne", 0.9, testBase)
	second := createTestEntryAt(t, ctx, testDB, journalID, "Acne", 0.6, testBase.AddDate(0, 0, 1))

	entries, err := ListEntries(ctx, testDB, journalID, false)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	want := []uuid.UUID{first.ID, second.ID, third.ID}
	if len(entries) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(entries))
	}
	for i, id := range want {
		if entries[i].ID != id {
			t.Errorf("Entry %d: expected %s, got %s", i, id, entries[i].ID)
		}
	}

	if _, err := ListEntries(ctx, testDB, uuid.New(), false); !errors.Is(err, ErrJournalNotFound) {
		t.Errorf("Expected ErrJournalNotFound, got %v", err)
	}
}

func TestSoftDeleteAndCleanEntries(t *testing.T) {
	testDB, journalID := setupTestDBWithJournal(t)
	defer testDB.Close()
	ctx := context.Background()

	keep := createTestEntryAt(t, ctx, testDB, journalID, "Acne", 0.5, testBase)
	drop := createTestEntryAt(t, ctx, testDB, journalID, "Acne", 0.7, testBase.AddDate(0, 0, 1))

	if err := DeleteEntry(ctx, testDB, drop.ID); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}

	visible, _ := ListEntries(ctx, testDB, journalID, false)
	if len(visible) != 1 || visible[0].ID != keep.ID {
		t.Errorf("Expected only the kept entry to be listed, got %+v", visible)
	}

	all, _ := ListEntries(ctx, testDB, journalID, true)
	if len(all) != 2 {
		t.Errorf("Expected 2 entries including deleted, got %d", len(all))
	}

	deleted, err := GetEntry(ctx, testDB, drop.ID)
	if err != nil {
		t.Fatalf("GetEntry on soft-deleted entry failed: %v", err)
	}
	if !deleted.Deleted {
		t.Errorf("Expected entry to be marked deleted")
	}

	n, err := CleanDeletedEntries(ctx, testDB, journalID)
	if err != nil {
		t.Fatalf("CleanDeletedEntries failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 entry cleaned, got %d", n)
	}
	if _, err := GetEntry(ctx, testDB, drop.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected cleaned entry to be gone, got %v", err)
	}

	if err := DeleteEntry(ctx, testDB, uuid.New()); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound, got %v", err)
	}
}

func TestCompareLatest(t *testing.T) {
	ctx := context.Background()

	type obs struct {
		label      string
		confidence float64
	}
	tests := []struct {
		name string
		obs  []obs
		want skincare.Trend
	}{
		{"NoEntries", nil, skincare.NotEnoughData},
		{"SingleEntry", []obs{{"Acne", 0.8}}, skincare.NotEnoughData},
		{"Cleared", []obs{{"Acne", 0.80}, {"no issues", 0.10}}, skincare.Improved},
		{"FlaredUp", []obs{{"no issues", 0.10}, {"Acne", 0.75}}, skincare.Worsened},
		{"Unchanged", []obs{{"Acne", 0.50}, {"Acne", 0.52}}, skincare.StayedTheSame},
		{"LowerConfidence", []obs{{"Acne", 0.70}, {"Dryness", 0.40}}, skincare.Improved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB, journalID := setupTestDBWithJournal(t)
			defer testDB.Close()

			for i, o := range tt.obs {
				createTestEntryAt(t, ctx, testDB, journalID, o.label, o.confidence, testBase.AddDate(0, 0, i))
			}

			result, err := CompareLatest(ctx, testDB, journalID, skincare.TrendComparator{})
			if err != nil {
				t.Fatalf("CompareLatest failed: %v", err)
			}
			if result.Trend != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, result.Trend)
			}
			if len(tt.obs) >= 2 && (result.Previous == nil || result.Latest == nil) {
				t.Errorf("Expected the compared entries to be returned")
			}
		})
	}

	t.Run("IgnoresDeletedEntries", func(t *testing.T) {
		testDB, journalID := setupTestDBWithJournal(t)
		defer testDB.Close()

		createTestEntryAt(t, ctx, testDB, journalID, "Acne", 0.9, testBase)
		createTestEntryAt(t, ctx, testDB, journalID, "Acne", 0.4, testBase.AddDate(0, 0, 1))
		flare := createTestEntryAt(t, ctx, testDB, journalID, "Acne", 0.95, testBase.AddDate(0, 0, 2))
		if err := DeleteEntry(ctx, testDB, flare.ID); err != nil {
			t.Fatalf("DeleteEntry failed: %v", err)
		}

		result, err := CompareLatest(ctx, testDB, journalID, skincare.TrendComparator{})
		if err != nil {
			t.Fatalf("CompareLatest failed: %v", err)
		}
		if result.Trend != skincare.Improved {
			t.Errorf("Expected %q, got %q", skincare.Improved, result.Trend)
		}
	})

	t.Run("CustomNormalLabel", func(t *testing.T) {
		testDB, journalID := setupTestDBWithJournal(t)
		defer testDB.Close()

		createTestEntryAt(t, ctx, testDB, journalID, "Acne", 0.3, testBase)
		createTestEntryAt(t, ctx, testDB, journalID, "Clear", 0.9, testBase.AddDate(0, 0, 1))

		result, err := CompareLatest(ctx, testDB, journalID, skincare.TrendComparator{NormalLabel: "clear"})
		if err != nil {
			t.Fatalf("CompareLatest failed: %v", err)
		}
		if result.Trend != skincare.Improved {
			t.Errorf("Expected %q, got %q", skincare.Improved, result.Trend)
		}
	})

	t.Run("UnknownJournal", func(t *testing.T) {
		testDB := setupTestDB(t)
		defer testDB.Close()
		_, err := CompareLatest(ctx, testDB, uuid.New(), skincare.TrendComparator{})
		if !errors.Is(err, ErrJournalNotFound) {
			t.Errorf("Expected ErrJournalNotFound, got %v", err)
		}
	})
}
