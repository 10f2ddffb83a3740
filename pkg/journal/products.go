package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/unowned-ai/skinlog/pkg/skincare"
)

var ErrProductNotFound = errors.New("product not found")

const (
	createProductStatement = `
	INSERT INTO products (id, name, ingredient_text, condition, assessment, advice)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	getProductStatement = `
	SELECT id, name, ingredient_text, condition, assessment, advice, created_at, updated_at
	FROM products
	WHERE id = ?
	`

	listProductsStatement = `
	SELECT id, name, ingredient_text, condition, assessment, advice, created_at, updated_at
	FROM products
	ORDER BY updated_at DESC, name ASC
	`

	updateProductAnalysisStatement = `
	UPDATE products
	SET condition = ?, assessment = ?, advice = ?, updated_at = unixepoch()
	WHERE id = ?
	`

	deleteProductStatement = `
	DELETE FROM products
	WHERE id = ?
	`

	insertProductIngredientStatement = `
	INSERT INTO product_ingredients (product_id, ingredient_key, found_in_text, position)
	VALUES (?, ?, ?, ?)
	`

	listProductIngredientsStatement = `
	SELECT ingredient_key, found_in_text, position
	FROM product_ingredients
	WHERE product_id = ?
	ORDER BY position ASC
	`

	deleteProductIngredientsStatement = `
	DELETE FROM product_ingredients
	WHERE product_id = ?
	`
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateProduct analyses ingredientText against dict for condition and stores
// the product with its verdict and recognized ingredients.
func CreateProduct(ctx context.Context, db *sql.DB, dict *skincare.Database, name, ingredientText string, condition skincare.Condition) (Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Product{}, ErrEmptyName
	}
	if !condition.Valid() {
		return Product{}, fmt.Errorf("%w: %q", skincare.ErrUnknownCondition, condition)
	}

	analysis := skincare.Analyze(ingredientText, dict, condition)
	advice, err := json.Marshal(analysis.Verdict)
	if err != nil {
		return Product{}, fmt.Errorf("failed to encode advice: %w", err)
	}

	productID := uuid.New()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Product{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		createProductStatement,
		productID,
		name,
		ingredientText,
		string(condition),
		string(analysis.Verdict.Assessment),
		string(advice),
	)
	if err != nil {
		return Product{}, err
	}

	if err := insertProductIngredients(ctx, tx, productID, analysis.Recognized); err != nil {
		return Product{}, err
	}

	if err := tx.Commit(); err != nil {
		return Product{}, err
	}

	slog.Debug("product analysed", "product", productID, "assessment", analysis.Verdict.Assessment,
		"recognized", len(analysis.Recognized), "unrecognized", len(analysis.Unrecognized))

	return GetProduct(ctx, db, productID)
}

func insertProductIngredients(ctx context.Context, ex execer, productID uuid.UUID, recognized []skincare.RecognizedIngredient) error {
	for i, r := range recognized {
		_, err := ex.ExecContext(ctx, insertProductIngredientStatement, productID, r.Ingredient.Key, r.FoundInText, i)
		if err != nil {
			return fmt.Errorf("failed to store ingredient %q: %w", r.Ingredient.Key, err)
		}
	}
	return nil
}

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var product Product
	var condition, assessment, advice string
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.IngredientText,
		&condition,
		&assessment,
		&advice,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return Product{}, err
	}

	product.Condition = skincare.Condition(condition)
	product.Assessment = skincare.Assessment(assessment)
	if err := decodeAdvice(advice, &product); err != nil {
		return Product{}, err
	}
	return product, nil
}

func decodeAdvice(advice string, product *Product) error {
	if err := json.Unmarshal([]byte(advice), &product.Advice); err != nil {
		return fmt.Errorf("failed to decode advice of product %s: %w", product.ID, err)
	}
	return nil
}

func listProductIngredients(ctx context.Context, db *sql.DB, productID uuid.UUID) ([]ProductIngredient, error) {
	rows, err := db.QueryContext(ctx, listProductIngredientsStatement, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ingredients []ProductIngredient
	for rows.Next() {
		var pi ProductIngredient
		if err := rows.Scan(&pi.IngredientKey, &pi.FoundInText, &pi.Position); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, pi)
	}

	return ingredients, rows.Err()
}

// GetProduct returns a product with its recognized ingredients.
func GetProduct(ctx context.Context, db *sql.DB, id uuid.UUID) (Product, error) {
	product, err := scanProduct(db.QueryRowContext(ctx, getProductStatement, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, err
	}

	product.Ingredients, err = listProductIngredients(ctx, db, id)
	if err != nil {
		return Product{}, err
	}

	return product, nil
}

// ListProducts returns every product, most recently analysed first. The
// recognized ingredients are not loaded.
func ListProducts(ctx context.Context, db *sql.DB) ([]Product, error) {
	rows, err := db.QueryContext(ctx, listProductsStatement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func DeleteProduct(ctx context.Context, db *sql.DB, id uuid.UUID) error {
	res, err := db.ExecContext(ctx, deleteProductStatement, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// ReanalyzeProducts re-runs the analysis of every stored product against dict
// for condition, e.g. after the user's skin type or the dictionary changed.
// Either every product is updated or none is.
func ReanalyzeProducts(ctx context.Context, db *sql.DB, dict *skincare.Database, condition skincare.Condition) (int, error) {
	if !condition.Valid() {
		return 0, fmt.Errorf("%w: %q", skincare.ErrUnknownCondition, condition)
	}

	products, err := ListProducts(ctx, db)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, p := range products {
		analysis := skincare.Analyze(p.IngredientText, dict, condition)
		advice, err := json.Marshal(analysis.Verdict)
		if err != nil {
			return 0, fmt.Errorf("failed to encode advice: %w", err)
		}

		_, err = tx.ExecContext(ctx, updateProductAnalysisStatement,
			string(condition), string(analysis.Verdict.Assessment), string(advice), p.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to update product %s: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx, deleteProductIngredientsStatement, p.ID); err != nil {
			return 0, err
		}
		if err := insertProductIngredients(ctx, tx, p.ID, analysis.Recognized); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	slog.Info("products reanalysed", "count", len(products), "condition", condition)
	return len(products), nil
}
