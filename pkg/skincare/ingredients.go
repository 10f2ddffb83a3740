package skincare

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

var (
	ErrDuplicateIngredient = errors.New("duplicate ingredient key")
	ErrInvalidIngredient   = errors.New("invalid ingredient record")
)

// Ingredient is one record of the ingredient dictionary.
type Ingredient struct {
	Key         string      `yaml:"key,omitempty" json:"key"`
	Name        string      `yaml:"name" json:"name"`
	Aliases     []string    `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	GoodFor     []Condition `yaml:"good_for,omitempty" json:"good_for,omitempty"`
	BadFor      []Condition `yaml:"bad_for,omitempty" json:"bad_for,omitempty"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
}

// IsGoodFor reports whether the ingredient is listed as beneficial for c.
func (i Ingredient) IsGoodFor(c Condition) bool {
	return slices.Contains(i.GoodFor, c)
}

// IsBadFor reports whether the ingredient is listed as problematic for c.
func (i Ingredient) IsBadFor(c Condition) bool {
	return slices.Contains(i.BadFor, c)
}

// Database is the immutable ingredient dictionary. The zero value is an
// empty dictionary. A Database is safe for concurrent use.
type Database struct {
	records map[string]Ingredient
	// lookup resolves every normalized primary key and alias to a record key.
	lookup map[string]string
	keys   []string
}

// NormalizeName lowercases and trims s; all dictionary lookups go through it.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewDatabase builds a dictionary from records. A record without Key is keyed
// by its normalized Name. Primary keys always take precedence over aliases,
// and an alias claimed by several records resolves to the first of them.
func NewDatabase(records []Ingredient) (*Database, error) {
	db := &Database{
		records: make(map[string]Ingredient, len(records)),
		lookup:  make(map[string]string, len(records)*2),
		keys:    make([]string, 0, len(records)),
	}

	for i, rec := range records {
		if strings.TrimSpace(rec.Name) == "" {
			return nil, fmt.Errorf("%w: record %d has no name", ErrInvalidIngredient, i)
		}
		key := NormalizeName(rec.Key)
		if key == "" {
			key = NormalizeName(rec.Name)
		}
		if _, exists := db.records[key]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateIngredient, key)
		}
		for _, c := range append(slices.Clone(rec.GoodFor), rec.BadFor...) {
			if !c.Valid() {
				return nil, fmt.Errorf("%w: %q references %w %q", ErrInvalidIngredient, key, ErrUnknownCondition, c)
			}
		}
		rec.Key = key
		rec.Aliases = slices.Clone(rec.Aliases)
		rec.GoodFor = slices.Clone(rec.GoodFor)
		rec.BadFor = slices.Clone(rec.BadFor)

		db.records[key] = rec
		db.keys = append(db.keys, key)
		db.lookup[key] = key
	}

	for _, key := range db.keys {
		for _, alias := range db.records[key].Aliases {
			normalized := NormalizeName(alias)
			if normalized == "" {
				continue
			}
			if _, taken := db.lookup[normalized]; taken {
				continue
			}
			db.lookup[normalized] = key
		}
	}

	return db, nil
}

// Len returns the number of records.
func (db *Database) Len() int {
	if db == nil {
		return 0
	}
	return len(db.records)
}

// Get returns the record stored under key.
func (db *Database) Get(key string) (Ingredient, bool) {
	if db == nil {
		return Ingredient{}, false
	}
	rec, ok := db.records[NormalizeName(key)]
	return rec, ok
}

// Resolve finds the record for a primary name or alias.
func (db *Database) Resolve(name string) (Ingredient, bool) {
	if db == nil {
		return Ingredient{}, false
	}
	key, ok := db.lookup[NormalizeName(name)]
	if !ok {
		return Ingredient{}, false
	}
	return db.records[key], true
}

// Records returns every record sorted by key.
func (db *Database) Records() []Ingredient {
	if db == nil {
		return nil
	}
	keys := slices.Clone(db.keys)
	sort.Strings(keys)
	out := make([]Ingredient, 0, len(keys))
	for _, k := range keys {
		out = append(out, db.records[k])
	}
	return out
}
