package skincare

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recognize(t *testing.T, names ...string) []RecognizedIngredient {
	t.Helper()
	db := sampleDatabase(t)
	recognized := MatchIngredients(names, db)
	require.Len(t, recognized, len(names), "all sample names must be in the dictionary")
	return recognized
}

func TestGenerateAdvice(t *testing.T) {
	tests := []struct {
		name           string
		ingredients    []string
		condition      Condition
		wantAssessment Assessment
		wantPositive   []string
		wantCaution    []string
	}{
		{
			name:           "bad ingredient dominates",
			ingredients:    []string{"Aqua", "Fragrance", "Niacinamide"},
			condition:      Sensitive,
			wantAssessment: PotentiallyAvoid,
			wantPositive:   []string{"Aqua: Beneficial for Sensitive.", "Niacinamide: Beneficial for Sensitive."},
			wantCaution:    []string{"Fragrance: May be problematic for Sensitive."},
		},
		{
			name:           "only good ingredients",
			ingredients:    []string{"Salicylic Acid", "Niacinamide"},
			condition:      Oily,
			wantAssessment: Good,
			wantPositive:   []string{"Salicylic Acid: Beneficial for Oily.", "Niacinamide: Beneficial for Oily."},
			wantCaution:    []string{},
		},
		{
			name:           "ingredient both good and bad for the condition",
			ingredients:    []string{"Retinol"},
			condition:      Dry,
			wantAssessment: PotentiallyAvoid,
			wantPositive:   []string{},
			wantCaution:    []string{"Retinol: May be problematic for Dry."},
		},
		{
			name:           "recognized but no indicators",
			ingredients:    []string{"Fragrance"},
			condition:      Oily,
			wantAssessment: Neutral,
			wantPositive:   []string{noIndicatorsNote},
			wantCaution:    []string{},
		},
		{
			name:           "nothing recognized",
			ingredients:    nil,
			condition:      Normal,
			wantAssessment: Neutral,
			wantPositive:   []string{noIngredientsNote},
			wantCaution:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := GenerateAdvice(recognize(t, tt.ingredients...), tt.condition)
			assert.Equal(t, tt.wantAssessment, v.Assessment)
			assert.Equal(t, tt.wantPositive, v.PositiveNotes)
			assert.Equal(t, tt.wantCaution, v.CautionaryNotes)
			assert.Equal(t, tt.condition, v.Condition)
		})
	}
}

func TestGenerateAdvice_IngredientInBothSetsAddsBothNotes(t *testing.T) {
	db, err := NewDatabase([]Ingredient{
		{Name: "Mystery Oil", GoodFor: []Condition{Dry}, BadFor: []Condition{Dry}},
	})
	require.NoError(t, err)

	v := GenerateAdvice(MatchIngredients([]string{"mystery oil"}, db), Dry)
	assert.Equal(t, PotentiallyAvoid, v.Assessment)
	assert.Equal(t, []string{"Mystery Oil: Beneficial for Dry."}, v.PositiveNotes)
	assert.Equal(t, []string{"Mystery Oil: May be problematic for Dry."}, v.CautionaryNotes)
}

func TestGenerateAdvice_AllBadIsAlwaysAvoid(t *testing.T) {
	db := sampleDatabase(t)
	for _, condition := range AllConditions {
		var bad []RecognizedIngredient
		for _, rec := range db.Records() {
			if rec.IsBadFor(condition) {
				bad = append(bad, RecognizedIngredient{Ingredient: rec, FoundInText: rec.Name})
			}
		}
		if len(bad) == 0 {
			continue
		}
		v := GenerateAdvice(bad, condition)
		assert.Equal(t, PotentiallyAvoid, v.Assessment, "condition %s", condition)
		assert.Len(t, v.CautionaryNotes, len(bad))
	}
}

func TestGenerateAdvice_NeverUseWithCaution(t *testing.T) {
	db := sampleDatabase(t)
	all := MatchIngredients(func() []string {
		var names []string
		for _, rec := range db.Records() {
			names = append(names, rec.Name)
		}
		return names
	}(), db)

	for _, condition := range AllConditions {
		for i := range all {
			v := GenerateAdvice(all[:i], condition)
			assert.NotEqual(t, UseWithCaution, v.Assessment)
		}
	}
}

func TestGenerateAdvice_Deterministic(t *testing.T) {
	recognized := recognize(t, "Aqua", "Retinol", "Fragrance", "Glycerin")

	want := GenerateAdvice(recognized, Sensitive)

	var wg sync.WaitGroup
	results := make([]Verdict, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = GenerateAdvice(recognized, Sensitive)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestAnalyze(t *testing.T) {
	db := sampleDatabase(t)

	a := Analyze("Ingredients: Aqua, Fragrance, Niacinamide, Dimethicone", db, Sensitive)
	assert.Equal(t, []string{"Aqua", "Fragrance", "Niacinamide", "Dimethicone"}, a.Tokens)
	assert.Equal(t, []string{"Aqua", "Fragrance", "Niacinamide"}, recognizedNames(a.Recognized))
	assert.Equal(t, []string{"Dimethicone"}, a.Unrecognized)
	assert.Equal(t, PotentiallyAvoid, a.Verdict.Assessment)
	assert.Equal(t, []string{"Fragrance: May be problematic for Sensitive."}, a.Verdict.CautionaryNotes)
}
