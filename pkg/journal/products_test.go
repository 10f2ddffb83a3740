package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/unowned-ai/skinlog/pkg/skincare"
)

func testDictionary(t *testing.T) *skincare.Database {
	t.Helper()
	dict, err := skincare.DefaultDatabase()
	if err != nil {
		t.Fatalf("Failed to load ingredient dictionary: %v", err)
	}
	return dict
}

func ingredientKeysOf(p Product) []string {
	keys := make([]string, 0, len(p.Ingredients))
	for _, pi := range p.Ingredients {
		keys = append(keys, pi.IngredientKey)
	}
	return keys
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCreateProduct(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()
	ctx := context.Background()
	dict := testDictionary(t)

	product, err := CreateProduct(ctx, testDB, dict, "Calming Serum", "Ingredients: Aqua, Fragrance, Niacinamide", skincare.Sensitive)
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	if product.ID == uuid.Nil {
		t.Errorf("Expected product ID to be set")
	}
	if product.Assessment != skincare.PotentiallyAvoid {
		t.Errorf("Expected assessment %q, got %q", skincare.PotentiallyAvoid, product.Assessment)
	}
	if product.Advice.Assessment != product.Assessment || product.Advice.Condition != skincare.Sensitive {
		t.Errorf("Stored advice doesn't match product: %+v", product.Advice)
	}
	if want := []string{"Fragrance: May be problematic for Sensitive."}; !equalStrings(product.Advice.CautionaryNotes, want) {
		t.Errorf("Expected cautionary notes %v, got %v", want, product.Advice.CautionaryNotes)
	}
	if want := []string{"aqua", "fragrance", "niacinamide"}; !equalStrings(ingredientKeysOf(product), want) {
		t.Errorf("Expected ingredients %v, got %v", want, ingredientKeysOf(product))
	}
	for i, pi := range product.Ingredients {
		if pi.Position != i {
			t.Errorf("Ingredient %s: expected position %d, got %d", pi.IngredientKey, i, pi.Position)
		}
	}

	t.Run("AliasesStoredUnderPrimaryKey", func(t *testing.T) {
		p, err := CreateProduct(ctx, testDB, dict, "Body Oil", "Cocos Nucifera Oil, Parfum, Vitamin E", skincare.Dry)
		if err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
		if want := []string{"coconut oil", "fragrance"}; !equalStrings(ingredientKeysOf(p), want) {
			t.Errorf("Expected ingredients %v, got %v", want, ingredientKeysOf(p))
		}
		if p.Ingredients[1].FoundInText != "Parfum" {
			t.Errorf("Expected found text Parfum, got %q", p.Ingredients[1].FoundInText)
		}
	})

	t.Run("NothingRecognized", func(t *testing.T) {
		p, err := CreateProduct(ctx, testDB, dict, "Mystery Cream", "Dimethicone, Phenoxyethanol", skincare.Normal)
		if err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
		if p.Assessment != skincare.Neutral || len(p.Ingredients) != 0 {
			t.Errorf("Expected a neutral product with no ingredients, got %+v", p)
		}
	})

	t.Run("InvalidCondition", func(t *testing.T) {
		_, err := CreateProduct(ctx, testDB, dict, "Serum", "Aqua", skincare.Condition("Shiny"))
		if !errors.Is(err, skincare.ErrUnknownCondition) {
			t.Errorf("Expected ErrUnknownCondition, got %v", err)
		}
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := CreateProduct(ctx, testDB, dict, " ", "Aqua", skincare.Dry)
		if !errors.Is(err, ErrEmptyName) {
			t.Errorf("Expected ErrEmptyName, got %v", err)
		}
	})
}

func TestGetAndListProducts(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()
	ctx := context.Background()
	dict := testDictionary(t)

	serum, _ := CreateProduct(ctx, testDB, dict, "Serum", "Aqua, Niacinamide", skincare.Oily)
	_, _ = CreateProduct(ctx, testDB, dict, "Cleanser", "Aqua, Salicylic Acid", skincare.Oily)

	got, err := GetProduct(ctx, testDB, serum.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if got.Name != "Serum" || got.Assessment != skincare.Good || len(got.Ingredients) != 2 {
		t.Errorf("Unexpected product %+v", got)
	}

	if _, err := GetProduct(ctx, testDB, uuid.New()); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}

	products, err := ListProducts(ctx, testDB)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(products))
	}
	for _, p := range products {
		if len(p.Advice.PositiveNotes) == 0 {
			t.Errorf("Expected advice to be decoded for %s", p.Name)
		}
	}
}

func TestDeleteProduct(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()
	ctx := context.Background()
	dict := testDictionary(t)

	p, _ := CreateProduct(ctx, testDB, dict, "Serum", "Aqua, Niacinamide", skincare.Oily)

	if err := DeleteProduct(ctx, testDB, p.ID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if _, err := GetProduct(ctx, testDB, p.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound after delete, got %v", err)
	}

	var remaining int
	if err := testDB.QueryRow("SELECT COUNT(*) FROM product_ingredients WHERE product_id = ?", p.ID).Scan(&remaining); err != nil {
		t.Fatalf("Failed to count product ingredients: %v", err)
	}
	if remaining != 0 {
		t.Errorf("Expected product ingredients to be removed with the product, %d left", remaining)
	}

	if err := DeleteProduct(ctx, testDB, p.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound on second delete, got %v", err)
	}
}

func TestReanalyzeProducts(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()
	ctx := context.Background()
	dict := testDictionary(t)

	p, _ := CreateProduct(ctx, testDB, dict, "Calming Serum", "Aqua, Fragrance, Niacinamide", skincare.Sensitive)

	t.Run("NewCondition", func(t *testing.T) {
		n, err := ReanalyzeProducts(ctx, testDB, dict, skincare.Oily)
		if err != nil {
			t.Fatalf("ReanalyzeProducts failed: %v", err)
		}
		if n != 1 {
			t.Errorf("Expected 1 product reanalysed, got %d", n)
		}

		got, _ := GetProduct(ctx, testDB, p.ID)
		if got.Condition != skincare.Oily || got.Assessment != skincare.Good {
			t.Errorf("Expected a good product for Oily skin, got %q for %q", got.Assessment, got.Condition)
		}
		if got.Advice.Condition != skincare.Oily {
			t.Errorf("Expected stored advice for Oily, got %q", got.Advice.Condition)
		}
	})

	t.Run("NewDictionary", func(t *testing.T) {
		small, err := skincare.NewDatabase([]skincare.Ingredient{
			{Name: "Niacinamide", BadFor: []skincare.Condition{skincare.Dry}},
		})
		if err != nil {
			t.Fatalf("NewDatabase failed: %v", err)
		}

		if _, err := ReanalyzeProducts(ctx, testDB, small, skincare.Dry); err != nil {
			t.Fatalf("ReanalyzeProducts failed: %v", err)
		}

		got, _ := GetProduct(ctx, testDB, p.ID)
		if want := []string{"niacinamide"}; !equalStrings(ingredientKeysOf(got), want) {
			t.Errorf("Expected ingredients %v, got %v", want, ingredientKeysOf(got))
		}
		if got.Assessment != skincare.PotentiallyAvoid {
			t.Errorf("Expected %q, got %q", skincare.PotentiallyAvoid, got.Assessment)
		}
	})

	t.Run("InvalidConditionChangesNothing", func(t *testing.T) {
		before, _ := GetProduct(ctx, testDB, p.ID)
		if _, err := ReanalyzeProducts(ctx, testDB, dict, skincare.Condition("")); !errors.Is(err, skincare.ErrUnknownCondition) {
			t.Errorf("Expected ErrUnknownCondition, got %v", err)
		}
		after, _ := GetProduct(ctx, testDB, p.ID)
		if before.Assessment != after.Assessment || before.Condition != after.Condition {
			t.Errorf("Product changed by a rejected reanalysis")
		}
	})
}
