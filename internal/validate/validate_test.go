package validate

import (
	"context"
	"testing"

	"foodtruck_back_end/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(exists ExistsFunc) Schema {
	return Schema{
		Entity: "Customization",
		Fields: []Field{
			{Name: "quantity", Kind: Int, Required: true, Positive: true},
			{Name: "price", Kind: Float, Required: true, NonNegative: true},
			{Name: "ingredientId", Column: "ingredient_id", Kind: ID, Required: true,
				Entity: "Ingredient", Exists: exists},
		},
	}
}

func existsAlways(context.Context, int64) (bool, error) { return true, nil }
func existsNever(context.Context, int64) (bool, error)  { return false, nil }

func TestSchemaCheckCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid body", func(t *testing.T) {
		vals, err := testSchema(existsAlways).Check(ctx, map[string]any{
			"quantity":     float64(3),
			"price":        10.99,
			"ingredientId": float64(7),
		}, false)
		require.NoError(t, err)
		assert.Equal(t, 3, vals["quantity"])
		assert.Equal(t, 10.99, vals["price"])
		assert.Equal(t, int64(7), vals["ingredient_id"])
	})

	t.Run("missing required field", func(t *testing.T) {
		_, err := testSchema(existsAlways).Check(ctx, map[string]any{
			"quantity": float64(3),
			"price":    10.99,
		}, false)
		require.Error(t, err)
		assert.Equal(t, "Ingredient ID is required", apperr.From(err).Message)
		assert.Equal(t, 400, apperr.From(err).Status())
	})

	t.Run("non numeric id", func(t *testing.T) {
		_, err := testSchema(existsAlways).Check(ctx, map[string]any{
			"quantity":     float64(3),
			"price":        10.99,
			"ingredientId": "abc",
		}, false)
		require.Error(t, err)
		assert.Equal(t, "Ingredient ID must be a number", apperr.From(err).Message)
	})

	t.Run("unknown referenced id", func(t *testing.T) {
		_, err := testSchema(existsNever).Check(ctx, map[string]any{
			"quantity":     float64(3),
			"price":        10.99,
			"ingredientId": float64(9999),
		}, false)
		require.Error(t, err)
		assert.Equal(t, "Ingredient not found", apperr.From(err).Message)
		assert.Equal(t, 404, apperr.From(err).Status())
	})

	t.Run("zero id", func(t *testing.T) {
		_, err := testSchema(existsAlways).Check(ctx, map[string]any{
			"quantity":     float64(3),
			"price":        10.99,
			"ingredientId": float64(0),
		}, false)
		require.Error(t, err)
		assert.Equal(t, "Ingredient ID must be greater than 0", apperr.From(err).Message)
	})

	t.Run("non positive quantity", func(t *testing.T) {
		_, err := testSchema(existsAlways).Check(ctx, map[string]any{
			"quantity":     float64(0),
			"price":        10.99,
			"ingredientId": float64(7),
		}, false)
		require.Error(t, err)
		assert.Equal(t, "quantity must be greater than 0", apperr.From(err).Message)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := testSchema(existsAlways).Check(ctx, map[string]any{
			"quantity":     float64(3),
			"price":        -1.0,
			"ingredientId": float64(7),
		}, false)
		require.Error(t, err)
		assert.Equal(t, "price cannot be negative", apperr.From(err).Message)
	})

	t.Run("fractional integer rejected", func(t *testing.T) {
		_, err := testSchema(existsAlways).Check(ctx, map[string]any{
			"quantity":     2.5,
			"price":        10.99,
			"ingredientId": float64(7),
		}, false)
		require.Error(t, err)
		assert.Equal(t, "quantity must be an integer", apperr.From(err).Message)
	})
}

func TestSchemaCheckUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("partial body only checks present fields", func(t *testing.T) {
		vals, err := testSchema(existsAlways).Check(ctx, map[string]any{
			"quantity": float64(5),
		}, true)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"quantity": 5}, vals)
	})

	t.Run("empty body is a no-op", func(t *testing.T) {
		_, err := testSchema(existsAlways).Check(ctx, map[string]any{}, true)
		require.Error(t, err)
		ae := apperr.From(err)
		assert.Equal(t, apperr.NoOp, ae.Kind)
		assert.Equal(t, "No details to update", ae.Message)
		assert.Equal(t, 200, ae.Status())
	})

	t.Run("present field still validated", func(t *testing.T) {
		_, err := testSchema(existsNever).Check(ctx, map[string]any{
			"ingredientId": float64(9999),
		}, true)
		require.Error(t, err)
		assert.Equal(t, "Ingredient not found", apperr.From(err).Message)
	})
}

func TestFieldBounds(t *testing.T) {
	schema := Schema{Entity: "Discount", Fields: []Field{
		{Name: "percentage", Kind: Float, Required: true, Positive: true, Max: 100},
	}}

	_, err := schema.Check(context.Background(), map[string]any{"percentage": 150.0}, false)
	require.Error(t, err)
	assert.Equal(t, "percentage must be at most 100", apperr.From(err).Message)

	vals, err := schema.Check(context.Background(), map[string]any{"percentage": 100.0}, false)
	require.NoError(t, err)
	assert.Equal(t, 100.0, vals["percentage"])
}

func TestMinLen(t *testing.T) {
	schema := Schema{Entity: "Order", Fields: []Field{
		{Name: "firstName", Kind: String, Required: true, MinLen: 2},
	}}

	_, err := schema.Check(context.Background(), map[string]any{"firstName": "J"}, false)
	require.Error(t, err)
	assert.Equal(t, "firstName must be at least 2 characters", apperr.From(err).Message)
}

func TestCheckID(t *testing.T) {
	id, err := CheckID("Category", "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = CheckID("Category", "abc")
	require.Error(t, err)
	assert.Equal(t, "Category ID must be a number", apperr.From(err).Message)

	_, err = CheckID("Category", "-3")
	require.Error(t, err)
	assert.Equal(t, "Category ID must be greater than 0", apperr.From(err).Message)

	_, err = CheckID("Category", "")
	require.Error(t, err)
	assert.Equal(t, "Category ID is required", apperr.From(err).Message)
}

func TestCheckUUID(t *testing.T) {
	id, err := CheckUUID("Order", "5f4e7b1a-3c2d-4e5f-8a9b-0c1d2e3f4a5b")
	require.NoError(t, err)
	assert.Equal(t, "5f4e7b1a-3c2d-4e5f-8a9b-0c1d2e3f4a5b", id.String())

	_, err = CheckUUID("Order", "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, "Order ID is not valid", apperr.From(err).Message)
}

func TestRequireContact(t *testing.T) {
	assert.NoError(t, RequireContact("jean@example.com", ""))
	assert.NoError(t, RequireContact("", "+32 470 12 34 56"))
	assert.NoError(t, RequireContact("jean@example.com", "0470123456"))

	err := RequireContact("", "")
	require.Error(t, err)
	assert.Equal(t, "An email or a phone number is required", apperr.From(err).Message)

	assert.Error(t, RequireContact("pas-un-email", ""))
	assert.Error(t, RequireContact("", "abc"))
}
