package skincare

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recommendationsOfType(recs []Recommendation, typ RecommendationType) []string {
	var titles []string
	for _, r := range recs {
		if r.Type == typ {
			titles = append(titles, r.Title)
		}
	}
	return titles
}

func TestRecommend(t *testing.T) {
	db := sampleDatabase(t)
	recs := Recommend(db, Sensitive)

	assert.Equal(t, []string{"Fragrance-Free", "Gentle Ingredients", "Patch Test"}, recommendationsOfType(recs, GeneralTip))
	assert.Equal(t, []string{
		"Aloe Vera", "Aqua", "Ceramides", "Glycerin", "Hyaluronic Acid",
		"Niacinamide", "Shea Butter", "Squalane", "Zinc Oxide",
	}, recommendationsOfType(recs, IngredientToSeek))
	assert.Equal(t, []string{
		"Alcohol Denat.", "Benzoyl Peroxide", "Coconut Oil", "Fragrance",
		"Lactic Acid", "Retinol", "Tea Tree Oil", "Vitamin C",
	}, recommendationsOfType(recs, IngredientToAvoid))

	for _, r := range recs {
		assert.Equal(t, Sensitive, r.Condition)
		assert.NotEmpty(t, r.Description)
	}
}

func TestRecommend_GroupsInOrder(t *testing.T) {
	db := sampleDatabase(t)
	for _, condition := range AllConditions {
		recs := Recommend(db, condition)
		require.NotEmpty(t, recs)
		assert.True(t, sort.SliceIsSorted(recs, func(i, j int) bool {
			return recommendationOrder[recs[i].Type] < recommendationOrder[recs[j].Type]
		}), "condition %s", condition)
		assert.Len(t, recommendationsOfType(recs, GeneralTip), 3)
	}
}

func TestRecommend_FallbackDescriptions(t *testing.T) {
	db, err := NewDatabase([]Ingredient{
		{Name: "Panthenol", GoodFor: []Condition{Dry}},
		{Name: "Menthol", BadFor: []Condition{Dry}},
	})
	require.NoError(t, err)

	recs := Recommend(db, Dry)
	var seek, avoid Recommendation
	for _, r := range recs {
		switch r.Type {
		case IngredientToSeek:
			seek = r
		case IngredientToAvoid:
			avoid = r
		}
	}
	assert.Equal(t, "Beneficial for Dry skin.", seek.Description)
	assert.Equal(t, "May be problematic for Dry skin. Consider avoiding or using with caution.", avoid.Description)
}

func TestRecommend_EmptyDatabase(t *testing.T) {
	recs := Recommend(nil, Oily)
	assert.Len(t, recs, 3)
	assert.Empty(t, recommendationsOfType(recs, IngredientToSeek))
}
