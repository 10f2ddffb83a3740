package skincare

import "fmt"

// Assessment is the headline of a Verdict.
type Assessment string

const (
	Good             Assessment = "Potentially Good"
	Neutral          Assessment = "Neutral"
	UseWithCaution   Assessment = "Use with Caution"
	PotentiallyAvoid Assessment = "Potentially Avoid"
)

const (
	noIndicatorsNote   = "No specific strong indicators for or against for your skin type based on recognized ingredients."
	noIngredientsNote  = "Could not recognize any ingredients to provide advice."
	beneficialNoteFmt  = "%s: Beneficial for %s."
	problematicNoteFmt = "%s: May be problematic for %s."
)

// Verdict is the advice for one product and one condition.
type Verdict struct {
	Assessment      Assessment `json:"assessment"`
	PositiveNotes   []string   `json:"positive_notes"`
	CautionaryNotes []string   `json:"cautionary_notes"`
	Condition       Condition  `json:"condition"`
}

// GenerateAdvice scores recognized ingredients for condition. Any
// problematic ingredient makes the product PotentiallyAvoid; otherwise a
// single beneficial one makes it Good.
func GenerateAdvice(recognized []RecognizedIngredient, condition Condition) Verdict {
	v := Verdict{
		PositiveNotes:   []string{},
		CautionaryNotes: []string{},
		Condition:       condition,
	}

	var good, bad int
	for _, r := range recognized {
		if r.Ingredient.IsGoodFor(condition) {
			v.PositiveNotes = append(v.PositiveNotes, fmt.Sprintf(beneficialNoteFmt, r.Ingredient.Name, condition))
			good++
		}
		if r.Ingredient.IsBadFor(condition) {
			v.CautionaryNotes = append(v.CautionaryNotes, fmt.Sprintf(problematicNoteFmt, r.Ingredient.Name, condition))
			bad++
		}
	}

	switch {
	case bad > 0:
		v.Assessment = PotentiallyAvoid
	case good > 0:
		v.Assessment = Good
	default:
		v.Assessment = Neutral
	}

	switch {
	case len(recognized) == 0:
		v.PositiveNotes = append(v.PositiveNotes, noIngredientsNote)
	case good == 0 && bad == 0:
		v.PositiveNotes = append(v.PositiveNotes, noIndicatorsNote)
	}

	return v
}

// Analysis bundles every intermediate result of analysing one ingredient list.
type Analysis struct {
	Tokens       []string               `json:"tokens"`
	Recognized   []RecognizedIngredient `json:"recognized"`
	Unrecognized []string               `json:"unrecognized,omitempty"`
	Verdict      Verdict                `json:"verdict"`
}

// Analyze parses text, matches it against db and advises for condition.
func Analyze(text string, db *Database, condition Condition) Analysis {
	tokens := ParseIngredientTokens(text)
	recognized := MatchIngredients(tokens, db)
	return Analysis{
		Tokens:       tokens,
		Recognized:   recognized,
		Unrecognized: UnrecognizedTokens(tokens, db),
		Verdict:      GenerateAdvice(recognized, condition),
	}
}
