package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/unowned-ai/skinlog/pkg/skincare"
)

// MatchedProduct holds a Product and the number of query ingredients it contains.
type MatchedProduct struct {
	Product
	MatchCount int `json:"match_count"`
}

// ingredientKeys resolves names against dict, falling back to the normalized
// name for ingredients the dictionary does not know.
func ingredientKeys(dict *skincare.Database, names []string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, name := range names {
		key := skincare.NormalizeName(name)
		if rec, ok := dict.Resolve(name); ok {
			key = rec.Key
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// SearchProductsByIngredient finds products containing any of the named
// ingredients (names or aliases). Products are ranked by the number of
// matching ingredients in descending order, ties broken by updated_at.
func SearchProductsByIngredient(ctx context.Context, db *sql.DB, dict *skincare.Database, names []string) ([]MatchedProduct, error) {
	keys := ingredientKeys(dict, names)
	if len(keys) == 0 {
		return []MatchedProduct{}, nil
	}

	placeholders := strings.Repeat("?,", len(keys)-1) + "?"

	sqlQuery := fmt.Sprintf(`
		SELECT
			p.id, p.name, p.ingredient_text, p.condition, p.assessment, p.advice, p.created_at, p.updated_at,
			COUNT(pi.ingredient_key) as match_count
		FROM
			products p
		JOIN
			product_ingredients pi ON p.id = pi.product_id
		WHERE
			pi.ingredient_key IN (%s)
		GROUP BY
			p.id, p.name, p.ingredient_text, p.condition, p.assessment, p.advice, p.created_at, p.updated_at
		ORDER BY
			match_count DESC,
			p.updated_at DESC,
			p.name ASC;
	`, placeholders)

	args := make([]interface{}, 0, len(keys))
	for _, key := range keys {
		args = append(args, key)
	}

	rows, err := db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer rows.Close()

	results := []MatchedProduct{}
	for rows.Next() {
		var mp MatchedProduct
		var condition, assessment, advice string
		err := rows.Scan(
			&mp.ID,
			&mp.Name,
			&mp.IngredientText,
			&condition,
			&assessment,
			&advice,
			&mp.CreatedAt,
			&mp.UpdatedAt,
			&mp.MatchCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result row: %w", err)
		}
		mp.Condition = skincare.Condition(condition)
		mp.Assessment = skincare.Assessment(assessment)
		if err := decodeAdvice(advice, &mp.Product); err != nil {
			return nil, err
		}
		results = append(results, mp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over search results: %w", err)
	}

	return results, nil
}
