package skincare

import (
	"fmt"
	"sort"
)

// RecommendationType groups recommendations for display.
type RecommendationType string

const (
	GeneralTip        RecommendationType = "General Skincare Tips"
	IngredientToSeek  RecommendationType = "Ingredients to Look For"
	IngredientToAvoid RecommendationType = "Ingredients to Consider Avoiding"
)

var recommendationOrder = map[RecommendationType]int{
	GeneralTip:        0,
	IngredientToSeek:  1,
	IngredientToAvoid: 2,
}

// Recommendation is a single piece of condition-specific advice.
type Recommendation struct {
	Type        RecommendationType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Condition   Condition          `json:"condition"`
}

type tip struct {
	title, description string
}

var generalTips = map[Condition][]tip{
	AcneProne: {
		{"Regular Cleansing", "Cleanse your face twice a day to remove excess oil and impurities."},
		{"Avoid Picking", "Resist the urge to pick or squeeze blemishes, as it can worsen inflammation and lead to scarring."},
		{"Non-Comedogenic Products", "Look for makeup and skincare products labeled 'non-comedogenic' to avoid clogging pores."},
	},
	Dry: {
		{"Hydrate Well", "Use a gentle, hydrating cleanser and a rich moisturizer daily."},
		{"Lukewarm Water", "Wash your face with lukewarm, not hot, water."},
		{"Humidifier", "Consider using a humidifier in dry environments."},
	},
	Oily: {
		{"Lightweight Moisturizer", "Even oily skin needs hydration; use a lightweight, oil-free moisturizer."},
		{"Blotting Papers", "Use blotting papers throughout the day to manage excess shine."},
		{"Avoid Over-Washing", "Washing too frequently can strip the skin, causing it to produce more oil."},
	},
	Sensitive: {
		{"Patch Test", "Always patch test new products on a small area of skin before applying to your entire face."},
		{"Fragrance-Free", "Choose fragrance-free and hypoallergenic products when possible."},
		{"Gentle Ingredients", "Look for soothing ingredients like aloe vera, chamomile, or calendula."},
	},
	Normal: {
		{"Maintain Balance", "Focus on maintaining your skin's natural balance with a consistent routine."},
		{"Sun Protection", "Use sunscreen daily to protect against UV damage."},
		{"Listen to Your Skin", "Pay attention to how your skin reacts to different products or environmental changes."},
	},
}

// Recommend lists general tips for condition followed by the dictionary's
// ingredients to seek and to avoid, each group sorted by title.
func Recommend(db *Database, condition Condition) []Recommendation {
	var recs []Recommendation

	for _, ing := range db.Records() {
		if ing.IsGoodFor(condition) {
			desc := ing.Description
			if desc == "" {
				desc = fmt.Sprintf("Beneficial for %s skin.", condition)
			}
			recs = append(recs, Recommendation{Type: IngredientToSeek, Title: ing.Name, Description: desc, Condition: condition})
		}
		if ing.IsBadFor(condition) {
			desc := ing.Description
			if desc == "" {
				desc = fmt.Sprintf("May be problematic for %s skin. Consider avoiding or using with caution.", condition)
			}
			recs = append(recs, Recommendation{Type: IngredientToAvoid, Title: ing.Name, Description: desc, Condition: condition})
		}
	}

	for _, t := range generalTips[condition] {
		recs = append(recs, Recommendation{Type: GeneralTip, Title: t.title, Description: t.description, Condition: condition})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Type != recs[j].Type {
			return recommendationOrder[recs[i].Type] < recommendationOrder[recs[j].Type]
		}
		return recs[i].Title < recs[j].Title
	})
	return recs
}
