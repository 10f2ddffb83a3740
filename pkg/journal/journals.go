package journal

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrJournalNotFound = errors.New("journal not found")
	ErrJournalExists   = errors.New("journal already exists")
	ErrEmptyName       = errors.New("name must not be empty")
)

const (
	createJournalStatement = `
	INSERT INTO journals (id, name, description, active)
	VALUES (?, ?, ?, ?)
	`

	getJournalStatement = `
	SELECT id, name, description, active, created_at, updated_at
	FROM journals
	WHERE id = ?
	`

	getJournalByNameStatement = `
	SELECT id, name, description, active, created_at, updated_at
	FROM journals
	WHERE name = ?
	`

	listJournalsStatement = `
	SELECT id, name, description, active, created_at, updated_at
	FROM journals
	WHERE active = ? OR ? = false
	ORDER BY updated_at DESC, name ASC
	`

	updateJournalStatement = `
	UPDATE journals
	SET name = ?, description = ?, active = ?, updated_at = unixepoch()
	WHERE id = ?
	`

	deleteJournalStatement = `
	DELETE FROM journals
	WHERE id = ?
	`

	deleteInactiveJournalsStatement = `
	DELETE FROM journals
	WHERE active = false
	`
)

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func CreateJournal(ctx context.Context, db *sql.DB, name, description string) (Journal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Journal{}, ErrEmptyName
	}

	journalID := uuid.New()

	_, err := db.ExecContext(
		ctx,
		createJournalStatement,
		journalID,
		name,
		description,
		true, // active
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Journal{}, ErrJournalExists
		}
		return Journal{}, err
	}

	return GetJournal(ctx, db, journalID)
}

func scanJournal(row interface{ Scan(...any) error }) (Journal, error) {
	var journal Journal
	var description sql.NullString
	err := row.Scan(
		&journal.ID,
		&journal.Name,
		&description,
		&journal.Active,
		&journal.CreatedAt,
		&journal.UpdatedAt,
	)
	journal.Description = description.String
	return journal, err
}

func GetJournal(ctx context.Context, db *sql.DB, id uuid.UUID) (Journal, error) {
	journal, err := scanJournal(db.QueryRowContext(ctx, getJournalStatement, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Journal{}, ErrJournalNotFound
		}
		return Journal{}, err
	}

	return journal, nil
}

// GetJournalByName looks a journal up by its unique name.
func GetJournalByName(ctx context.Context, db *sql.DB, name string) (Journal, error) {
	journal, err := scanJournal(db.QueryRowContext(ctx, getJournalByNameStatement, strings.TrimSpace(name)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Journal{}, ErrJournalNotFound
		}
		return Journal{}, err
	}

	return journal, nil
}

// EnsureJournal returns the journal called name, creating it when missing.
func EnsureJournal(ctx context.Context, db *sql.DB, name string) (Journal, error) {
	journal, err := GetJournalByName(ctx, db, name)
	if err == nil {
		return journal, nil
	}
	if !errors.Is(err, ErrJournalNotFound) {
		return Journal{}, err
	}

	journal, err = CreateJournal(ctx, db, name, "")
	if errors.Is(err, ErrJournalExists) {
		// Lost a race with a concurrent creator.
		return GetJournalByName(ctx, db, name)
	}
	return journal, err
}

func ListJournals(ctx context.Context, db *sql.DB, activeOnly bool) ([]Journal, error) {
	rows, err := db.QueryContext(ctx, listJournalsStatement, activeOnly, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var journals []Journal
	for rows.Next() {
		journal, err := scanJournal(rows)
		if err != nil {
			return nil, err
		}

		journals = append(journals, journal)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return journals, nil
}

func UpdateJournal(ctx context.Context, db *sql.DB, id uuid.UUID, name, description string, active bool) (Journal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Journal{}, ErrEmptyName
	}

	res, err := db.ExecContext(
		ctx,
		updateJournalStatement,
		name,
		description,
		active,
		id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Journal{}, ErrJournalExists
		}
		return Journal{}, err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return Journal{}, err
	}

	if rowsAffected == 0 {
		return Journal{}, ErrJournalNotFound
	}

	return GetJournal(ctx, db, id)
}

// DeleteJournal removes a journal and, through the foreign key, its entries.
func DeleteJournal(ctx context.Context, db *sql.DB, id uuid.UUID) error {
	res, err := db.ExecContext(ctx, deleteJournalStatement, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrJournalNotFound
	}

	return nil
}

func DeleteInactiveJournals(ctx context.Context, db *sql.DB) (int64, error) {
	res, err := db.ExecContext(ctx, deleteInactiveJournalsStatement)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
