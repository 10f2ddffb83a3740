// Package journal stores skin areas, their classifier entries and the user's
// products in the skinlog SQLite database.
package journal

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/unowned-ai/skinlog/pkg/skincare"
)

// Journal is one skin area (face, back, ...) whose entries form a timeline.
type Journal struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   float64   `json:"created_at"`
	UpdatedAt   float64   `json:"updated_at"`
}

// Entry is one classifier result for a photo of a journal's skin area.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	JournalID  uuid.UUID `json:"journal_id"`
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"`
	Notes      string    `json:"notes,omitempty"`
	ImageFile  string    `json:"image_file,omitempty"`
	CapturedAt float64   `json:"captured_at"`
	Deleted    bool      `json:"deleted"`
	CreatedAt  float64   `json:"created_at"`
	UpdatedAt  float64   `json:"updated_at"`
}

// Observation converts e for the trend comparator.
func (e Entry) Observation() skincare.Observation {
	return skincare.Observation{
		Timestamp:  Time(e.CapturedAt),
		Label:      e.Label,
		Confidence: e.Confidence,
	}
}

// Description renders e the way the classifier reports it.
func (e Entry) Description() string {
	return skincare.FormatPrediction(e.Label, e.Confidence)
}

// Product is a saved product together with its latest analysis.
type Product struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	IngredientText string              `json:"ingredient_text"`
	Condition      skincare.Condition  `json:"condition"`
	Assessment     skincare.Assessment `json:"assessment"`
	Advice         skincare.Verdict    `json:"advice"`
	Ingredients    []ProductIngredient `json:"ingredients,omitempty"`
	CreatedAt      float64             `json:"created_at"`
	UpdatedAt      float64             `json:"updated_at"`
}

// ProductIngredient is a recognized dictionary ingredient of a product.
type ProductIngredient struct {
	IngredientKey string `json:"ingredient_key"`
	FoundInText   string `json:"found_in_text"`
	Position      int    `json:"position"`
}

// Time converts a unixepoch REAL column to a time.Time.
func Time(ts float64) time.Time {
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*1e9))
}

// Timestamp converts t to the unixepoch REAL representation used in the schema.
func Timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
