package skincare

// RecognizedIngredient is a dictionary record found in an ingredient list.
type RecognizedIngredient struct {
	Ingredient  Ingredient `json:"ingredient"`
	FoundInText string     `json:"found_in_text"`
}

// MatchIngredients resolves tokens against db. A token matches by primary
// key first and by alias second; tokens that match nothing are dropped.
// Every record is reported once, at the position of its first match.
func MatchIngredients(tokens []string, db *Database) []RecognizedIngredient {
	recognized := []RecognizedIngredient{}
	if db.Len() == 0 {
		return recognized
	}

	seen := make(map[string]bool)
	for _, token := range tokens {
		rec, ok := db.Resolve(token)
		if !ok {
			continue
		}
		name := NormalizeName(rec.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		recognized = append(recognized, RecognizedIngredient{
			Ingredient:  rec,
			FoundInText: token,
		})
	}
	return recognized
}

// UnrecognizedTokens returns the tokens MatchIngredients would drop.
func UnrecognizedTokens(tokens []string, db *Database) []string {
	var out []string
	for _, token := range tokens {
		if _, ok := db.Resolve(token); !ok {
			out = append(out, token)
		}
	}
	return out
}
