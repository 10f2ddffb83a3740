package db

const (
	// SchemaV1 defines the SQL statements for version 1 of the database schema.
	// This schema pertains to the 'journaldb' component.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS skinlog_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS journals (
    id UUID PRIMARY KEY,
    name VARCHAR(256) NOT NULL UNIQUE,
    description TEXT,
    active BOOLEAN DEFAULT TRUE,
    created_at REAL DEFAULT (unixepoch()),
    updated_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS entries (
    id UUID PRIMARY KEY,
    journal_id UUID NOT NULL REFERENCES journals(id) ON DELETE CASCADE,
    label VARCHAR(256) NOT NULL,
    confidence REAL NOT NULL CHECK (confidence >= 0 AND confidence <= 1),
    notes TEXT NOT NULL DEFAULT '',
    image_file TEXT NOT NULL DEFAULT '',
    captured_at REAL NOT NULL,
    deleted BOOLEAN DEFAULT FALSE,
    created_at REAL DEFAULT (unixepoch()),
    updated_at REAL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS entries_journal_captured ON entries (journal_id, captured_at);

CREATE TABLE IF NOT EXISTS products (
    id UUID PRIMARY KEY,
    name VARCHAR(256) NOT NULL,
    ingredient_text TEXT NOT NULL,
    condition VARCHAR(32) NOT NULL,
    assessment VARCHAR(32) NOT NULL,
    advice TEXT NOT NULL,
    created_at REAL DEFAULT (unixepoch()),
    updated_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS product_ingredients (
    product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
    ingredient_key VARCHAR(256) NOT NULL,
    found_in_text TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (product_id, ingredient_key)
);

CREATE INDEX IF NOT EXISTS product_ingredients_key ON product_ingredients (ingredient_key);
`
)
