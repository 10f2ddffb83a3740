package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unowned-ai/skinlog/pkg/skincare"
)

var (
	ErrEntryNotFound     = errors.New("entry not found")
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")
	ErrEmptyLabel        = errors.New("label must not be empty")
)

const (
	createEntryStatement = `
	INSERT INTO entries (id, journal_id, label, confidence, notes, image_file, captured_at, deleted)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	getEntryStatement = `
	SELECT id, journal_id, label, confidence, notes, image_file, captured_at, deleted, created_at, updated_at
	FROM entries
	WHERE id = ?
	`

	listEntriesStatement = `
	SELECT id, journal_id, label, confidence, notes, image_file, captured_at, deleted, created_at, updated_at
	FROM entries
	WHERE journal_id = ? AND (deleted = FALSE OR ? = TRUE)
	ORDER BY captured_at ASC, created_at ASC
	`

	softDeleteEntryStatement = `
	UPDATE entries
	SET deleted = TRUE, updated_at = unixepoch()
	WHERE id = ?
	`

	cleanDeletedEntriesStatement = `
	DELETE FROM entries
	WHERE journal_id = ? AND deleted = TRUE
	`
)

// NewEntry holds the fields of an entry to record. A zero CapturedAt means now.
type NewEntry struct {
	Label      string
	Confidence float64
	Notes      string
	ImageFile  string
	CapturedAt time.Time
}

// ValidateConfidence rejects values outside [0, 1] and NaN.
func ValidateConfidence(confidence float64) error {
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidConfidence, confidence)
	}
	return nil
}

func CreateEntry(ctx context.Context, db *sql.DB, journalID uuid.UUID, in NewEntry) (Entry, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return Entry{}, ErrEmptyLabel
	}
	if err := ValidateConfidence(in.Confidence); err != nil {
		return Entry{}, err
	}

	_, err := GetJournal(ctx, db, journalID)
	if err != nil {
		return Entry{}, err
	}

	capturedAt := in.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}

	entryID := uuid.New()
	_, err = db.ExecContext(
		ctx,
		createEntryStatement,
		entryID,
		journalID,
		label,
		in.Confidence,
		in.Notes,
		in.ImageFile,
		Timestamp(capturedAt),
		false, // deleted
	)
	if err != nil {
		return Entry{}, err
	}

	return GetEntry(ctx, db, entryID)
}

func scanEntry(row interface{ Scan(...any) error }) (Entry, error) {
	var entry Entry
	err := row.Scan(
		&entry.ID,
		&entry.JournalID,
		&entry.Label,
		&entry.Confidence,
		&entry.Notes,
		&entry.ImageFile,
		&entry.CapturedAt,
		&entry.Deleted,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	return entry, err
}

func GetEntry(ctx context.Context, db *sql.DB, id uuid.UUID) (Entry, error) {
	entry, err := scanEntry(db.QueryRowContext(ctx, getEntryStatement, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, err
	}

	return entry, nil
}

// ListEntries returns a journal's entries oldest first.
func ListEntries(ctx context.Context, db *sql.DB, journalID uuid.UUID, includeDeleted bool) ([]Entry, error) {
	_, err := GetJournal(ctx, db, journalID)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, listEntriesStatement, journalID, includeDeleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// DeleteEntry marks an entry deleted. CleanDeletedEntries removes it for good.
func DeleteEntry(ctx context.Context, db *sql.DB, id uuid.UUID) error {
	res, err := db.ExecContext(ctx, softDeleteEntryStatement, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

func CleanDeletedEntries(ctx context.Context, db *sql.DB, journalID uuid.UUID) (int64, error) {
	_, err := GetJournal(ctx, db, journalID)
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx, cleanDeletedEntriesStatement, journalID)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// TrendResult is the verdict for a journal with the two entries it compared.
type TrendResult struct {
	Trend    skincare.Trend `json:"trend"`
	Previous *Entry         `json:"previous,omitempty"`
	Latest   *Entry         `json:"latest,omitempty"`
}

// CompareLatest runs tc over the journal's non-deleted entries.
func CompareLatest(ctx context.Context, db *sql.DB, journalID uuid.UUID, tc skincare.TrendComparator) (TrendResult, error) {
	entries, err := ListEntries(ctx, db, journalID, false)
	if err != nil {
		return TrendResult{}, err
	}

	observations := make([]skincare.Observation, 0, len(entries))
	for _, e := range entries {
		observations = append(observations, e.Observation())
	}

	result := TrendResult{Trend: tc.Compare(observations)}
	if n := len(entries); n >= 2 {
		result.Previous = &entries[n-2]
		result.Latest = &entries[n-1]
	}
	return result, nil
}
